package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSessionRepository_Get(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs("sid-1").
		WillReturnRows(sqlmock.NewRows([]string{"sid", "sess", "expires_at"}).AddRow("sid-1", `{"user":{"id":1}}`, 1700000000))

	row, err := NewSessionRepository(db).Get(context.Background(), "sid-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row == nil || row.SID != "sid-1" || row.ExpiresAt != 1700000000 || row.Data != `{"user":{"id":1}}` {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestSessionRepository_Get_NotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectSessionSQL)).
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)

	row, err := NewSessionRepository(db).Get(context.Background(), "gone")
	if err != nil || row != nil {
		t.Fatalf("want (nil, nil), got (%+v, %v)", row, err)
	}
}

func TestSessionRepository_Upsert(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertSessionSQL)).
		WithArgs("sid-1", "{}", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewSessionRepository(db).Upsert(context.Background(), SessionRow{SID: "sid-1", Data: "{}", ExpiresAt: 42}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(deleteSessionSQL)).
		WithArgs("sid-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(deleteSessionSQL)).
		WithArgs("sid-2").
		WillReturnError(errors.New("locked"))

	repo := NewSessionRepository(db)
	if err := repo.Delete(context.Background(), "sid-1"); err != nil {
		t.Fatalf("deleting unknown sid should succeed, got %v", err)
	}
	if err := repo.Delete(context.Background(), "sid-2"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	now := time.Unix(1700000000, 0)
	mock.ExpectExec(regexp.QuoteMeta(deleteExpiredSessionSQL)).
		WithArgs(now.Unix()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewSessionRepository(db).DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("want 3 deleted, got %d", n)
	}
}
