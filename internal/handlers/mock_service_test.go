package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"marketing_site/internal/models"
	"marketing_site/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	loginUser models.SessionUser
	loginErr  error

	lastUsername string
	lastPassword string
	loginCalls   int
}

func (m *mockAuth) Login(_ context.Context, username, password string) (models.SessionUser, error) {
	m.loginCalls++
	m.lastUsername = username
	m.lastPassword = password
	return m.loginUser, m.loginErr
}

func (m *mockAuth) EnsureDefaultAdmin(context.Context, string, string) (bool, error) {
	return false, nil
}

type mockContact struct {
	submitID  int64
	submitErr error
	list      []models.ContactSubmission
	listErr   error

	submitted []models.NewContactSubmission
}

func (m *mockContact) Submit(_ context.Context, s models.NewContactSubmission) (int64, error) {
	m.submitted = append(m.submitted, s)
	return m.submitID, m.submitErr
}

func (m *mockContact) ListSubmissions(context.Context) ([]models.ContactSubmission, error) {
	return m.list, m.listErr
}

// mockSessions maps tokens straight to sessions.
type mockSessions struct {
	byToken    map[string]*models.Session
	loadErr    error
	saveErr    error
	saveToken  string
	destroyErr error

	saved     []models.Session
	destroyed int
}

func (m *mockSessions) LoadSession(_ context.Context, token string) (*models.Session, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if s, ok := m.byToken[token]; ok {
		cp := *s
		return &cp, nil
	}
	return &models.Session{}, nil
}

func (m *mockSessions) SaveSession(_ context.Context, s *models.Session) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	if s.IsNew() {
		s.ID = "sid-new"
		s.ExpiresAt = time.Now().Add(time.Hour).Truncate(time.Second)
	}
	m.saved = append(m.saved, *s)
	return m.saveToken, nil
}

func (m *mockSessions) DestroySession(_ context.Context, s *models.Session) error {
	if s == nil || s.IsNew() {
		return nil
	}
	if m.destroyErr != nil {
		return m.destroyErr
	}
	m.destroyed++
	*s = models.Session{}
	return nil
}

func (m *mockSessions) PruneExpiredSessions(context.Context) (int64, error) {
	return 0, nil
}

type mockHealth struct {
	err error
}

func (m *mockHealth) Ping(context.Context) error { return m.err }

var errDBDown = errors.New("db down")

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWithOptions(s, Options{})
}

func newTestRouterWithOptions(s *service.Service, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if s.Sessions == nil {
		s.Sessions = &mockSessions{}
	}
	h := NewHandler(s, nil, opts)
	return h.InitRoutes()
}

// adminSessions returns a session mock with one logged-in token.
func adminSessions(token string) *mockSessions {
	return &mockSessions{byToken: map[string]*models.Session{
		token: {
			ID:   "sid-1",
			Data: models.SessionData{User: &models.SessionUser{ID: 1, Username: "admin", Role: "admin"}},
		},
	}}
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: sessionCookieName, Value: token}
}
