package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketing_site/internal/models"
	"marketing_site/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTTL matches the 7-day cookie lifetime.
const DefaultSessionTTL = 7 * 24 * time.Hour

var ErrInvalidSession = errors.New("invalid session token")

// SessionService stores session data in the sessions table and hands out
// signed tokens that carry only the session id.
type SessionService struct {
	repo   repository.SessionRepo
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(repo repository.SessionRepo, secret string, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		repo:   repo,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// LoadSession resolves token to the stored session, falling back to a new one.
func (s *SessionService) LoadSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return &models.Session{}, nil
	}
	sid, err := s.parseToken(token)
	if err != nil {
		return &models.Session{}, nil
	}

	row, err := s.repo.Get(ctx, sid)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return &models.Session{}, nil
	}
	if row.ExpiresAt <= s.now().Unix() {
		if err := s.repo.Delete(ctx, sid); err != nil {
			return nil, err
		}
		return &models.Session{}, nil
	}

	var data models.SessionData
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		// unreadable payload: drop it and start over
		if err := s.repo.Delete(ctx, sid); err != nil {
			return nil, err
		}
		return &models.Session{}, nil
	}

	return &models.Session{
		ID:        row.SID,
		Data:      data,
		ExpiresAt: time.Unix(row.ExpiresAt, 0).UTC(),
	}, nil
}

// SaveSession creates or updates the session row. New sessions get a fresh
// id and expiry; existing ones keep theirs.
func (s *SessionService) SaveSession(ctx context.Context, sess *models.Session) (string, error) {
	if sess == nil {
		return "", errors.New("save session: nil session")
	}
	if sess.IsNew() {
		sess.ID = uuid.NewString()
		sess.ExpiresAt = time.Time{}
	}
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = s.now().Add(s.ttl).UTC().Truncate(time.Second)
	}

	payload, err := json.Marshal(sess.Data)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := s.repo.Upsert(ctx, repository.SessionRow{
		SID:       sess.ID,
		Data:      string(payload),
		ExpiresAt: sess.ExpiresAt.Unix(),
	}); err != nil {
		return "", err
	}
	return s.issueToken(sess.ID, sess.ExpiresAt)
}

// DestroySession deletes the stored row and resets sess. Unsaved sessions
// are a no-op.
func (s *SessionService) DestroySession(ctx context.Context, sess *models.Session) error {
	if sess == nil || sess.IsNew() {
		return nil
	}
	if err := s.repo.Delete(ctx, sess.ID); err != nil {
		return err
	}
	*sess = models.Session{}
	return nil
}

func (s *SessionService) PruneExpiredSessions(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

// issueToken signs the session id; exp mirrors the row expiry.
func (s *SessionService) issueToken(sid string, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		ID:        sid,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(s.now()),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// parseToken verifies the signature and expiry and returns the session id.
func (s *SessionService) parseToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.ID == "" {
		return "", ErrInvalidSession
	}
	return claims.ID, nil
}
