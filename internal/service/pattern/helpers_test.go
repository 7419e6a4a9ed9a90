package pattern

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mendapp/mend/internal/domain"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(d float64) time.Time {
	return testNow.Add(-time.Duration(d * float64(24*time.Hour)))
}

func sig(emotion domain.Emotion, intensity domain.Intensity, ctx domain.Context, at time.Time) domain.Signal {
	return domain.Signal{
		UserID:         "user-1",
		PrimaryEmotion: emotion,
		Intensity:      intensity,
		Context:        ctx,
		TimeBucket:     domain.TimeEvening,
		CreatedAt:      at,
	}
}

// mockSignals is an in-memory SignalReader that counts reads.
type mockSignals struct {
	mu    sync.Mutex
	sigs  []domain.Signal
	reads int
	err   error
}

func (m *mockSignals) ListSince(_ context.Context, userID string, since time.Time, limit int) ([]domain.Signal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Signal
	for _, s := range m.sigs {
		if s.UserID == userID && !s.CreatedAt.Before(since) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
