package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/service/compose"
)

func TestConversationRepo_Get(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewConversationRepo(db)

	at := time.Date(2026, 6, 15, 18, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT summary, themes, updated_at FROM mend_conversation_snapshots").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"summary", "themes", "updated_at"}).
			AddRow("Talking about late shifts.", "{work,rest}", at))

	got, err := repo.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Summary != "Talking about late shifts." || len(got.Themes) != 2 || got.Themes[1] != "rest" {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if got.UserID != "user-1" || !got.UpdatedAt.Equal(at) {
		t.Errorf("identity not set: %+v", got)
	}
}

func TestConversationRepo_GetNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewConversationRepo(db)

	mock.ExpectQuery("FROM mend_conversation_snapshots").
		WithArgs("user-2").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Get(context.Background(), "user-2"); !errors.Is(err, compose.ErrSnapshotNotFound) {
		t.Fatalf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestConversationRepo_Put(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewConversationRepo(db)

	at := time.Date(2026, 6, 15, 18, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO mend_conversation_snapshots (.+) ON CONFLICT \\(user_id\\) DO UPDATE").
		WithArgs("user-1", "Steadier today.", sqlmock.AnyArg(), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Put(context.Background(), &domain.ConversationSnapshot{UserID: "user-1", Summary: "Steadier today.", UpdatedAt: at})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
}

func TestConversationRepo_PutError(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewConversationRepo(db)

	mock.ExpectExec("INSERT INTO mend_conversation_snapshots").WillReturnError(errors.New("disk full"))

	if err := repo.Put(context.Background(), &domain.ConversationSnapshot{UserID: "user-1"}); err == nil {
		t.Fatal("expected an error")
	}
}
