package service

import (
	"context"
	"time"

	"marketing_site/internal/models"
	"marketing_site/internal/repository"
)

type Authorization interface {
	// Login returns the session identity for valid credentials, or
	// ErrInvalidCredentials for an unknown user or a wrong password.
	Login(ctx context.Context, username, password string) (models.SessionUser, error)
	EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error)
}

// Contact accepts public submissions and lists them for admins.
type Contact interface {
	Submit(ctx context.Context, s models.NewContactSubmission) (int64, error)
	ListSubmissions(ctx context.Context) ([]models.ContactSubmission, error)
}

// Sessions is the session store: cookie tokens in, server-side state out.
type Sessions interface {
	// LoadSession resolves a cookie token. Missing, tampered, unknown or
	// expired tokens yield a new empty session and no error.
	LoadSession(ctx context.Context, token string) (*models.Session, error)
	// SaveSession persists the session and returns the cookie token for it.
	SaveSession(ctx context.Context, s *models.Session) (string, error)
	DestroySession(ctx context.Context, s *models.Session) error
	PruneExpiredSessions(ctx context.Context) (int64, error)
}

// Health reports whether the backing database answers.
type Health interface {
	Ping(ctx context.Context) error
}

// Service aggregates all sub-services; it is built once per process.
type Service struct {
	Authorization
	Contact
	Sessions
	Health
}

// Options carries the process configuration the services depend on.
type Options struct {
	SessionSecret string
	SessionTTL    time.Duration
}

func NewService(repos *repository.Repository, opts Options) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Admins),
		Contact:       NewContactService(repos.Contacts),
		Sessions:      NewSessionService(repos.Sessions, opts.SessionSecret, opts.SessionTTL),
		Health:        NewHealthService(repos.DB),
	}
}
