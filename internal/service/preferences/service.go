package preferences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/pkg/logger"
	"github.com/mendapp/mend/internal/service/bucket"
)

// Service reads and writes mode preferences.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a preferences service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Mode returns the user's mode. Anonymous users, users who never chose, and
// lookup failures all get domain.DefaultMode; only the last is logged.
func (s *Service) Mode(ctx context.Context, userID string) domain.Mode {
	if userID == "" {
		return domain.DefaultMode
	}
	pref, err := s.repo.GetMode(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("mode preference lookup failed", "user_id", userID, "error", err)
		}
		return domain.DefaultMode
	}
	mode, ok := bucket.ParseMode(string(pref.Mode))
	if !ok {
		logger.Warn("stored mode preference is unknown", "user_id", userID, "mode", string(pref.Mode))
	}
	return mode
}

// SetMode validates and stores the user's mode.
func (s *Service) SetMode(ctx context.Context, userID, mode string) (*domain.ModePreference, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	m, ok := bucket.ParseMode(mode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	pref := &domain.ModePreference{UserID: userID, Mode: m, UpdatedAt: s.now().UTC()}
	if err := s.repo.UpsertMode(ctx, pref); err != nil {
		return nil, fmt.Errorf("save mode preference: %w", err)
	}
	return pref, nil
}
