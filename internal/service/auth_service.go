package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketing_site/internal/metrics"
	"marketing_site/internal/models"
	"marketing_site/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Domain errors for auth flows.
var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyPassword      = errors.New("password is empty")
)

// AuthService handles admin auth logic
type AuthService struct {
	adminRepo repository.AdminRepo
}

func NewAuthService(repo repository.AdminRepo) *AuthService {
	return &AuthService{adminRepo: repo}
}

// Login verifies credentials and returns the identity to store in the session.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.SessionUser, error) {
	u, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		metrics.AdminLoginsTotal.WithLabelValues("error").Inc()
		return models.SessionUser{}, err
	}
	if u == nil {
		// Burn a comparison so unknown users take as long as wrong passwords.
		_ = verifyPassword(dummyHash, password)
		metrics.AdminLoginsTotal.WithLabelValues("rejected").Inc()
		return models.SessionUser{}, ErrInvalidCredentials
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		metrics.AdminLoginsTotal.WithLabelValues("rejected").Inc()
		return models.SessionUser{}, ErrInvalidCredentials
	}

	metrics.AdminLoginsTotal.WithLabelValues("success").Inc()
	return sessionUserFrom(u), nil
}

// EnsureDefaultAdmin creates the bootstrap admin when the username is absent.
// It reports whether a row was created; repeated calls are no-ops.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	if strings.TrimSpace(username) == "" {
		return false, errors.New("default admin username is empty")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return false, fmt.Errorf("default admin password: %w", err)
	}
	return s.adminRepo.CreateIfAbsent(ctx, username, hash, models.DefaultRole)
}

func sessionUserFrom(u *models.AdminUser) models.SessionUser {
	role := u.Role
	if role == "" {
		role = models.DefaultRole
	}
	return models.SessionUser{ID: u.ID, Username: u.Username, Role: role}
}

// dummyHash is only compared against to equalize login timing.
var dummyHash = mustHash("not-a-real-password")

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
