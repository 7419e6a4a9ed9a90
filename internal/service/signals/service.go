package signals

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/pkg/logger"
)

// Service records normalized signals. It is safe for concurrent use.
type Service struct {
	repo      Repository
	extractor *Extractor
	loc       *time.Location
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithExtractor enables Analyze.
func WithExtractor(e *Extractor) Option {
	return func(s *Service) { s.extractor = e }
}

// WithLocation sets the zone used for fallback time buckets.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a signal service backed by the given repository.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, loc: DefaultLocation, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record normalizes raw, stamps it, and appends it to the store. A store
// failure is logged and the normalized signal is still returned.
func (s *Service) Record(ctx context.Context, userID, messageID string, raw RawExtraction) domain.Signal {
	now := s.now()
	sig := Normalize(raw, BucketAt(now, s.loc))
	sig.ID = uuid.New().String()
	sig.UserID = userID
	sig.MessageID = messageID
	sig.CreatedAt = now.UTC()

	if userID == "" {
		return sig
	}
	if err := s.repo.Append(ctx, &sig); err != nil {
		logger.Warn("signal store append failed", "user_id", userID, "message_id", messageID, "error", err)
	}
	return sig
}

// Analyze extracts a reading of content and records it. Extraction failures
// are returned; callers treat them as a skipped enrichment.
func (s *Service) Analyze(ctx context.Context, userID, messageID, content string) (domain.Signal, error) {
	if s.extractor == nil {
		return domain.Signal{}, ErrNoExtractor
	}
	if userID == "" {
		return domain.Signal{}, ErrUserRequired
	}
	raw, err := s.extractor.Extract(ctx, content)
	if err != nil {
		return domain.Signal{}, err
	}
	return s.Record(ctx, userID, messageID, raw), nil
}

// Recent returns the user's signals from the trailing window, newest first.
func (s *Service) Recent(ctx context.Context, userID string, window time.Duration, limit int) ([]domain.Signal, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	return s.repo.ListSince(ctx, userID, s.now().Add(-window), limit)
}
