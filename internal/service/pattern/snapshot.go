package pattern

import (
	"time"

	"github.com/mendapp/mend/internal/domain"
)

const (
	// SnapshotWindow is how far back a snapshot looks.
	SnapshotWindow = 14 * 24 * time.Hour
	// WeekWindow splits recent from prior activity.
	WeekWindow = 7 * 24 * time.Hour

	fluctuatingVolatility = 1.1
	calmCeiling           = 2.2
	elevatedCeiling       = 3.5
	dominantThemeCount    = 3
)

// ComputeSnapshot aggregates sigs (newest first) as of now. Signals older
// than SnapshotWindow are ignored.
func ComputeSnapshot(userID string, sigs []domain.Signal, now time.Time) domain.PatternSnapshot {
	windowStart := now.Add(-SnapshotWindow)
	weekStart := now.Add(-WeekWindow)

	var scores []float64
	themes := newCounter[domain.Context]()
	snap := domain.PatternSnapshot{UserID: userID, DominantThemes: []domain.Context{}, ComputedAt: now}

	for _, s := range sigs {
		if s.CreatedAt.Before(windowStart) {
			continue
		}
		snap.SignalCount++
		if !s.CreatedAt.Before(weekStart) {
			snap.RecentWeekCount++
		}
		if n, ok := IntensityScore(string(s.Intensity)); ok {
			scores = append(scores, n)
		}
		themes.add(s.Context)
	}
	snap.PriorWeekCount = snap.SignalCount - snap.RecentWeekCount

	snap.AvgIntensity = mean(scores)
	snap.Volatility = stdDev(scores)
	snap.DominantThemes = append(snap.DominantThemes, themes.top(dominantThemeCount)...)
	snap.BaselineState = baselineState(snap.AvgIntensity, snap.Volatility)
	return snap
}

func baselineState(avg, volatility float64) domain.BaselineState {
	switch {
	case volatility >= fluctuatingVolatility:
		return domain.BaselineFluctuating
	case avg <= calmCeiling:
		return domain.BaselineCalm
	case avg <= elevatedCeiling:
		return domain.BaselineElevated
	default:
		return domain.BaselineHigh
	}
}
