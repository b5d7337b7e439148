package repository

import (
	"context"
	"fmt"
	"time"

	"marketing_site/internal/models"

	"github.com/jmoiron/sqlx"
)

type ContactRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db, now: time.Now}
}

var _ ContactRepo = (*ContactRepository)(nil)

const (
	insertContactSQL = `INSERT INTO contact_submissions (first_name, last_name, email, company, service, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`
	selectContactsSQL = `SELECT id, first_name, last_name, email, company, service, message, created_at
		FROM contact_submissions ORDER BY created_at DESC, id DESC`
)

// Create stores a submission stamped with the current UTC time and returns its id.
func (r *ContactRepository) Create(ctx context.Context, s models.NewContactSubmission) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(insertContactSQL),
		s.FirstName,
		s.LastName,
		s.Email,
		s.Company,
		s.Service,
		s.Message,
		r.now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert contact submission from %q: %w", s.Email, err)
	}
	return id, nil
}

// List returns every submission, newest first.
func (r *ContactRepository) List(ctx context.Context) ([]models.ContactSubmission, error) {
	out := make([]models.ContactSubmission, 0)
	if err := r.db.SelectContext(ctx, &out, selectContactsSQL); err != nil {
		return nil, fmt.Errorf("select contact submissions: %w", err)
	}
	for i := range out {
		out[i].CreatedAt = out[i].CreatedAt.UTC()
	}
	return out, nil
}
