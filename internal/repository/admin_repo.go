package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"marketing_site/internal/models"

	"github.com/jmoiron/sqlx"
)

type AdminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Ensure implementation of AdminRepo interface at compile time.
var _ AdminRepo = (*AdminRepository)(nil)

const (
	insertAdminIfAbsentSQL   = `INSERT INTO admin_users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?) ON CONFLICT (username) DO NOTHING`
	selectAdminByUsernameSQL = `SELECT id, username, password_hash, role, created_at FROM admin_users WHERE username = ?`
)

// CreateIfAbsent inserts an admin row; an existing username is left untouched.
func (r *AdminRepository) CreateIfAbsent(ctx context.Context, username, passwordHash, role string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(insertAdminIfAbsentSQL), username, passwordHash, role, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert admin %q: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for admin %q: %w", username, err)
	}
	return n > 0, nil
}

// GetByUsername fetches an admin by username. Returns (nil, nil) if not found.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var u models.AdminUser
	err := r.db.GetContext(ctx, &u, r.db.Rebind(selectAdminByUsernameSQL), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select admin %q: %w", username, err)
	}
	return &u, nil
}
