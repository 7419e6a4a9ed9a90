package pattern

import (
	"slices"
	"time"

	"github.com/mendapp/mend/internal/domain"
)

const (
	recurringThreshold = 3
	trendThreshold     = 0.5
)

// BuildUserState summarizes the trailing 14 days of sigs (newest first) as
// narrative hints. It returns nil when fewer than three signals exist.
func BuildUserState(sigs []domain.Signal, now time.Time) *domain.UserState {
	if len(sigs) < 3 {
		return nil
	}
	windowStart := now.Add(-SnapshotWindow)
	weekStart := now.Add(-WeekWindow)

	emotions := newCounter[string]()
	contexts := newCounter[domain.Context]()
	buckets := newCounter[domain.TimeBucket]()
	var last7, prior7 []float64

	for _, s := range sigs {
		if s.CreatedAt.Before(windowStart) {
			continue
		}
		emotions.add(SoftLabel(s.PrimaryEmotion))
		contexts.add(s.Context)
		buckets.add(s.TimeBucket)

		score := IntensityOrDefault(string(s.Intensity))
		if s.CreatedAt.Before(weekStart) {
			prior7 = append(prior7, score)
		} else {
			last7 = append(last7, score)
		}
	}

	state := &domain.UserState{
		TopEmotions:       emotions.top(3),
		TopContexts:       contexts.top(3),
		IntensityTrend:    domain.TrendSteady,
		TimeBucketPattern: domain.TimeEvening,
		RecurringThemes:   contexts.atLeast(recurringThreshold),
	}
	if b, _, ok := buckets.max(); ok {
		state.TimeBucketPattern = b
	}

	// Without a prior week there is nothing to compare against.
	if len(last7) > 0 && len(prior7) > 0 {
		switch diff := mean(last7) - mean(prior7); {
		case diff > trendThreshold:
			state.IntensityTrend = domain.TrendRising
		case diff < -trendThreshold:
			state.IntensityTrend = domain.TrendEasing
		}
	}
	return state
}

// PromptChip is a suggested conversation starter.
type PromptChip struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

const maxPromptChips = 4

// PromptChips builds gentle conversation starters from state. The open
// prompt is always present; state may be nil.
func PromptChips(state *domain.UserState) []PromptChip {
	var chips []PromptChip
	if state != nil {
		if slices.Contains(state.TopContexts, domain.ContextWork) {
			chips = append(chips, PromptChip{Label: "Work has been heavy lately", Icon: "cloud"})
		}
		if slices.Contains(state.RecurringThemes, domain.ContextRelationships) {
			chips = append(chips, PromptChip{Label: "Something in my relationships feels off", Icon: "heart"})
		}
		if slices.Contains(state.RecurringThemes, domain.ContextSelf) {
			chips = append(chips, PromptChip{Label: "I keep saying yes when I don't want to", Icon: "moon"})
		}
		if state.IntensityTrend == domain.TrendRising {
			chips = append(chips, PromptChip{Label: "Things feel like they're building up", Icon: "sparkles"})
		}
		if slices.Contains(state.TopEmotions, "drained") || slices.Contains(state.TopEmotions, "heavy") {
			chips = append(chips, PromptChip{Label: "I'm carrying more than I'm letting on", Icon: "cloud"})
		}
	}
	chips = append(chips, PromptChip{Label: "Something I haven't said out loud", Icon: "heart"})
	if len(chips) > maxPromptChips {
		chips = chips[:maxPromptChips]
	}
	return chips
}
