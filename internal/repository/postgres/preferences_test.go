package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/service/preferences"
)

func TestPreferenceRepo_GetMode(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPreferenceRepo(db)

	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT companion_mode, updated_at FROM mend_user_preferences WHERE user_id = \\$1").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"companion_mode", "updated_at"}).AddRow("Just listen", at))

	got, err := repo.GetMode(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetMode: %v", err)
	}
	if got.Mode != domain.ModeListen || got.UserID != "user-1" {
		t.Errorf("unexpected preference: %+v", got)
	}
}

func TestPreferenceRepo_GetModeNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPreferenceRepo(db)

	mock.ExpectQuery("FROM mend_user_preferences").WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetMode(context.Background(), "user-1"); !errors.Is(err, preferences.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPreferenceRepo_UpsertMode(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPreferenceRepo(db)

	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO mend_user_preferences (.+) ON CONFLICT \\(user_id\\) DO UPDATE SET companion_mode = \\$2").
		WithArgs("user-1", "Help me decide", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertMode(context.Background(), &domain.ModePreference{UserID: "user-1", Mode: domain.ModeDecide, UpdatedAt: at})
	if err != nil {
		t.Fatalf("UpsertMode: %v", err)
	}
}
