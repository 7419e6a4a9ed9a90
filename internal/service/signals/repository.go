package signals

import (
	"context"
	"time"

	"github.com/mendapp/mend/internal/domain"
)

// Repository defines the data access contract for the signal store.
type Repository interface {
	// Append stores a new signal. Signals are never updated.
	Append(ctx context.Context, s *domain.Signal) error

	// ListSince returns the user's signals created at or after since,
	// newest first, capped at limit (0 means no cap).
	ListSince(ctx context.Context, userID string, since time.Time, limit int) ([]domain.Signal, error)
}
