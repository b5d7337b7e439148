package repository

import (
	"context"
	"time"

	"marketing_site/internal/models"

	"github.com/jmoiron/sqlx"
)

type AdminRepo interface {
	// CreateIfAbsent inserts the admin unless the username is taken.
	// It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, username, hash, role string) (bool, error)
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
}

type ContactRepo interface {
	Create(ctx context.Context, s models.NewContactSubmission) (int64, error)
	List(ctx context.Context) ([]models.ContactSubmission, error)
}

type SessionRepo interface {
	Get(ctx context.Context, sid string) (*SessionRow, error)
	Upsert(ctx context.Context, row SessionRow) error
	Delete(ctx context.Context, sid string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Repository struct {
	Admins   AdminRepo
	Contacts ContactRepo
	Sessions SessionRepo
	DB       Pinger
}

// NewRepository builds the repositories over db. sessionDB may be nil, in
// which case sessions live in db as well.
func NewRepository(db, sessionDB *sqlx.DB) *Repository {
	if sessionDB == nil {
		sessionDB = db
	}
	return &Repository{
		Admins:   NewAdminRepository(db),
		Contacts: NewContactRepository(db),
		Sessions: NewSessionRepository(sessionDB),
		DB:       db,
	}
}
