package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mendapp/mend/internal/domain"
)

// SignalRepo implements signals.Repository against PostgreSQL.
type SignalRepo struct{ db *sql.DB }

// NewSignalRepo creates a Postgres-backed signal store.
func NewSignalRepo(db *sql.DB) *SignalRepo { return &SignalRepo{db: db} }

func (r *SignalRepo) Append(ctx context.Context, s *domain.Signal) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	var secondary sql.NullString
	if s.SecondaryEmotion != nil {
		secondary = sql.NullString{String: string(*s.SecondaryEmotion), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mend_signals (id, user_id, message_id, primary_emotion, secondary_emotion,
		                          intensity, context, time_bucket, confidence, safe_summary, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11)
	`, s.ID, s.UserID, s.MessageID, string(s.PrimaryEmotion), secondary,
		string(s.Intensity), string(s.Context), string(s.TimeBucket), s.Confidence, s.SafeSummary, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("append signal: %w", err)
	}
	return nil
}

// ListSince returns the user's signals created at or after since, newest
// first. limit <= 0 returns every row.
func (r *SignalRepo) ListSince(ctx context.Context, userID string, since time.Time, limit int) ([]domain.Signal, error) {
	q := `
		SELECT id, user_id, COALESCE(message_id, ''), primary_emotion, secondary_emotion,
		       intensity, context, time_bucket, confidence, COALESCE(safe_summary, ''), created_at
		FROM mend_signals
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`
	args := []interface{}{userID, since}
	if limit > 0 {
		q += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list signals: %w", err)
	}
	defer rows.Close()

	var out []domain.Signal
	for rows.Next() {
		var (
			s         domain.Signal
			primary   string
			secondary sql.NullString
			intensity string
			lifeArea  string
			bucket    string
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.MessageID, &primary, &secondary,
			&intensity, &lifeArea, &bucket, &s.Confidence, &s.SafeSummary, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		s.PrimaryEmotion = domain.Emotion(primary)
		if secondary.Valid && secondary.String != "" {
			e := domain.Emotion(secondary.String)
			s.SecondaryEmotion = &e
		}
		s.Intensity = domain.Intensity(intensity)
		s.Context = domain.Context(lifeArea)
		s.TimeBucket = domain.TimeBucket(bucket)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signals: %w", err)
	}
	return out, nil
}
