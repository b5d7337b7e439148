package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SessionRow is the stored form of a session: the JSON payload and the
// expiry as unix seconds.
type SessionRow struct {
	SID       string `db:"sid"`
	Data      string `db:"sess"`
	ExpiresAt int64  `db:"expires_at"`
}

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

var _ SessionRepo = (*SessionRepository)(nil)

const (
	selectSessionSQL = `SELECT sid, sess, expires_at FROM sessions WHERE sid = ?`
	upsertSessionSQL = `INSERT INTO sessions (sid, sess, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (sid) DO UPDATE SET sess = excluded.sess, expires_at = excluded.expires_at`
	deleteSessionSQL        = `DELETE FROM sessions WHERE sid = ?`
	deleteExpiredSessionSQL = `DELETE FROM sessions WHERE expires_at <= ?`
)

// Get loads a session row. Returns (nil, nil) if not found.
func (r *SessionRepository) Get(ctx context.Context, sid string) (*SessionRow, error) {
	var row SessionRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(selectSessionSQL), sid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	return &row, nil
}

// Upsert writes the row; concurrent writers for the same sid are last-write-wins.
func (r *SessionRepository) Upsert(ctx context.Context, row SessionRow) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(upsertSessionSQL), row.SID, row.Data, row.ExpiresAt); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting an unknown sid is not an error.
func (r *SessionRepository) Delete(ctx context.Context, sid string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(deleteSessionSQL), sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session whose expiry is at or before now.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(deleteExpiredSessionSQL), now.Unix())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected for expired sessions: %w", err)
	}
	return n, nil
}
