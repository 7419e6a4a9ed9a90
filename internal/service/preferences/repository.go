package preferences

import (
	"context"

	"github.com/mendapp/mend/internal/domain"
)

// Repository persists one ModePreference row per user.
type Repository interface {
	// GetMode returns ErrNotFound when the user has never chosen a mode.
	GetMode(ctx context.Context, userID string) (*domain.ModePreference, error)
	// UpsertMode inserts or replaces the user's row.
	UpsertMode(ctx context.Context, pref *domain.ModePreference) error
}
