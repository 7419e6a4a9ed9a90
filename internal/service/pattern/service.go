package pattern

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/pkg/logger"
	"github.com/mendapp/mend/internal/pkg/render"
)

// SignalReader is the read side of the signal store.
type SignalReader interface {
	// ListSince returns signals at or after since, newest first, capped at
	// limit (0 means no cap).
	ListSince(ctx context.Context, userID string, since time.Time, limit int) ([]domain.Signal, error)
}

// Service serves aggregated views of a user's signals. It is safe for
// concurrent use.
type Service struct {
	signals  SignalReader
	cache    Cache
	ttl      time.Duration
	now      func() time.Time
	insights *Insights
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides DefaultSnapshotTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a pattern service. A nil cache uses a MemoryCache.
func NewService(signals SignalReader, cache Cache, opts ...Option) *Service {
	if cache == nil {
		cache = NewMemoryCache()
	}
	s := &Service{
		signals:  signals,
		cache:    cache,
		ttl:      DefaultSnapshotTTL,
		now:      time.Now,
		insights: NewInsights(render.New()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the user's 14-day snapshot, recomputing it when the
// memoized copy is missing or older than the TTL. Cache failures are logged
// and treated as misses.
func (s *Service) Snapshot(ctx context.Context, userID string) (domain.PatternSnapshot, error) {
	if userID == "" {
		return domain.PatternSnapshot{}, ErrUserRequired
	}
	now := s.now()

	cached, err := s.cache.Get(ctx, userID)
	switch {
	case err == nil && now.Sub(cached.ComputedAt) < s.ttl:
		return cached, nil
	case err != nil && !errors.Is(err, ErrCacheMiss):
		logger.Warn("snapshot cache read failed", "user_id", userID, "error", err)
	}

	sigs, err := s.signals.ListSince(ctx, userID, now.Add(-SnapshotWindow), 0)
	if err != nil {
		return domain.PatternSnapshot{}, fmt.Errorf("load signals for snapshot: %w", err)
	}
	snap := ComputeSnapshot(userID, sigs, now)
	if err := s.cache.Set(ctx, snap, s.ttl); err != nil {
		logger.Warn("snapshot cache write failed", "user_id", userID, "error", err)
	}
	return snap, nil
}

// Invalidate drops the memoized snapshot so the next read recomputes.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, userID); err != nil {
		logger.Warn("snapshot cache delete failed", "user_id", userID, "error", err)
	}
}

// Phase derives the user's phase from their ten newest signals.
func (s *Service) Phase(ctx context.Context, userID string) (domain.UserPhase, error) {
	if userID == "" {
		return domain.PhaseSettling, nil
	}
	sigs, err := s.signals.ListSince(ctx, userID, time.Time{}, phaseWindow)
	if err != nil {
		return domain.PhaseSettling, fmt.Errorf("load signals for phase: %w", err)
	}
	return DerivePhase(sigs), nil
}

// UserState returns narrative hints for the composer, or nil when there is
// not enough history.
func (s *Service) UserState(ctx context.Context, userID string) (*domain.UserState, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	now := s.now()
	sigs, err := s.signals.ListSince(ctx, userID, now.Add(-SnapshotWindow), 0)
	if err != nil {
		return nil, fmt.Errorf("load signals for user state: %w", err)
	}
	return BuildUserState(sigs, now), nil
}

// InsightView is everything the patterns surface shows.
type InsightView struct {
	Insights []domain.Insight `json:"insights"`
	Timeline []TimelineEntry  `json:"timeline"`
	Prompts  []PromptChip     `json:"prompts"`
}

// Insights returns the pattern cards, recent timeline and prompt chips.
func (s *Service) Insights(ctx context.Context, userID string) (InsightView, error) {
	if userID == "" {
		return InsightView{}, ErrUserRequired
	}
	now := s.now()
	sigs, err := s.signals.ListSince(ctx, userID, time.Time{}, InsightScope)
	if err != nil {
		return InsightView{}, fmt.Errorf("load signals for insights: %w", err)
	}
	return InsightView{
		Insights: s.insights.Compute(sigs, now),
		Timeline: Timeline(sigs),
		Prompts:  PromptChips(BuildUserState(sigs, now)),
	}, nil
}
