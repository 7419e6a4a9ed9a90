package compose

import (
	"context"

	"github.com/mendapp/mend/internal/domain"
)

// SnapshotRepository persists one rolling ConversationSnapshot per user.
// Get returns ErrSnapshotNotFound when the user has none. Put overwrites.
type SnapshotRepository interface {
	Get(ctx context.Context, userID string) (*domain.ConversationSnapshot, error)
	Put(ctx context.Context, snap *domain.ConversationSnapshot) error
}

// StateSource provides the aggregated user state used for narrative hints.
// A nil state means there is not enough history.
type StateSource interface {
	UserState(ctx context.Context, userID string) (*domain.UserState, error)
}
