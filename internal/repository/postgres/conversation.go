package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/service/compose"
)

// ConversationRepo implements compose.SnapshotRepository against PostgreSQL.
type ConversationRepo struct{ db *sql.DB }

// NewConversationRepo creates a Postgres-backed snapshot store.
func NewConversationRepo(db *sql.DB) *ConversationRepo { return &ConversationRepo{db: db} }

func (r *ConversationRepo) Get(ctx context.Context, userID string) (*domain.ConversationSnapshot, error) {
	s := &domain.ConversationSnapshot{UserID: userID}
	var themes pq.StringArray
	err := r.db.QueryRowContext(ctx, `
		SELECT summary, themes, updated_at
		FROM mend_conversation_snapshots
		WHERE user_id = $1
	`, userID).Scan(&s.Summary, &themes, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, compose.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation snapshot: %w", err)
	}
	s.Themes = []string(themes)
	return s, nil
}

// Put overwrites the user's snapshot.
func (r *ConversationRepo) Put(ctx context.Context, s *domain.ConversationSnapshot) error {
	themes := s.Themes
	if themes == nil {
		themes = []string{}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mend_conversation_snapshots (user_id, summary, themes, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET summary = $2, themes = $3, updated_at = $4
	`, s.UserID, s.Summary, pq.Array(themes), s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put conversation snapshot: %w", err)
	}
	return nil
}
