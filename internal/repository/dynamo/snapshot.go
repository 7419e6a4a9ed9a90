package dynamo

import (
	"context"
	"time"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/service/compose"
)

type snapshotItem struct {
	PK        string   `dynamodbav:"PK"`
	SK        string   `dynamodbav:"SK"`
	UserID    string   `dynamodbav:"UserID"`
	Summary   string   `dynamodbav:"Summary"`
	Themes    []string `dynamodbav:"Themes,omitempty"`
	UpdatedAt string   `dynamodbav:"UpdatedAt"`
}

// SnapshotStore implements compose.SnapshotRepository.
type SnapshotStore struct {
	t table
}

func NewSnapshotStore(api API, tableName string) *SnapshotStore {
	return &SnapshotStore{t: table{api: api, name: tableName}}
}

func (s *SnapshotStore) Get(ctx context.Context, userID string) (*domain.ConversationSnapshot, error) {
	var item snapshotItem
	found, err := s.t.get(ctx, userID, skSnapshot, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, compose.ErrSnapshotNotFound
	}
	snap := &domain.ConversationSnapshot{UserID: userID, Summary: item.Summary, Themes: item.Themes}
	if ts, err := time.Parse(time.RFC3339Nano, item.UpdatedAt); err == nil {
		snap.UpdatedAt = ts
	}
	return snap, nil
}

func (s *SnapshotStore) Put(ctx context.Context, snap *domain.ConversationSnapshot) error {
	return s.t.put(ctx, snapshotItem{
		PK:        userPK(snap.UserID),
		SK:        skSnapshot,
		UserID:    snap.UserID,
		Summary:   snap.Summary,
		Themes:    snap.Themes,
		UpdatedAt: snap.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
}
