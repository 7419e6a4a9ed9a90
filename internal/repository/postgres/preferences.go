package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/service/preferences"
)

// PreferenceRepo implements preferences.Repository against PostgreSQL.
type PreferenceRepo struct{ db *sql.DB }

// NewPreferenceRepo creates a Postgres-backed preference store.
func NewPreferenceRepo(db *sql.DB) *PreferenceRepo { return &PreferenceRepo{db: db} }

func (r *PreferenceRepo) GetMode(ctx context.Context, userID string) (*domain.ModePreference, error) {
	p := &domain.ModePreference{UserID: userID}
	var mode string
	err := r.db.QueryRowContext(ctx, `
		SELECT companion_mode, updated_at
		FROM mend_user_preferences
		WHERE user_id = $1
	`, userID).Scan(&mode, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, preferences.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get mode preference: %w", err)
	}
	p.Mode = domain.Mode(mode)
	return p, nil
}

func (r *PreferenceRepo) UpsertMode(ctx context.Context, p *domain.ModePreference) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mend_user_preferences (user_id, companion_mode, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET companion_mode = $2, updated_at = $3
	`, p.UserID, string(p.Mode), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert mode preference: %w", err)
	}
	return nil
}
