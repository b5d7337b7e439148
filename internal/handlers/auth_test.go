package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"marketing_site/internal/models"
	"marketing_site/internal/service"
)

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin_SuccessSetsSessionCookie(t *testing.T) {
	auth := &mockAuth{loginUser: models.SessionUser{ID: 1, Username: "admin", Role: "admin"}}
	sessions := &mockSessions{saveToken: "tok123"}
	r := newTestRouter(&service.Service{Authorization: auth, Sessions: sessions})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/api/admin/login", `{"username":" admin ","password":"admin123"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.User.Username != "admin" || resp.Message != msgLoggedIn {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if auth.lastUsername != " admin " || auth.lastPassword != "admin123" {
		t.Fatalf("Login got (%q, %q)", auth.lastUsername, auth.lastPassword)
	}
	if len(sessions.saved) != 1 || sessions.saved[0].Data.User == nil || sessions.saved[0].Data.User.ID != 1 {
		t.Fatalf("session not saved with user: %+v", sessions.saved)
	}

	cookie := findCookie(w, sessionCookieName)
	if cookie == nil {
		t.Fatalf("expected %s cookie", sessionCookieName)
	}
	if cookie.Value != "tok123" || !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode || cookie.Secure {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}
}

func TestLogin_RotatesExistingSession(t *testing.T) {
	auth := &mockAuth{loginUser: models.SessionUser{ID: 1, Username: "admin", Role: "admin"}}
	sessions := adminSessions("old")
	sessions.saveToken = "fresh"
	r := newTestRouter(&service.Service{Authorization: auth, Sessions: sessions})

	w := httptest.NewRecorder()
	req := postJSON("/api/admin/login", `{"username":"admin","password":"admin123"}`)
	req.AddCookie(sessionCookie("old"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if sessions.destroyed != 1 {
		t.Fatalf("previous session should be destroyed, got %d", sessions.destroyed)
	}
	if len(sessions.saved) != 1 || sessions.saved[0].ID != "sid-new" {
		t.Fatalf("login should save under a new id, got %+v", sessions.saved)
	}
	if cookie := findCookie(w, sessionCookieName); cookie == nil || cookie.Value != "fresh" {
		t.Fatalf("expected cookie for the new session, got %+v", cookie)
	}
}

func TestLogin_RotationFailure(t *testing.T) {
	auth := &mockAuth{loginUser: models.SessionUser{ID: 1, Username: "admin"}}
	sessions := adminSessions("old")
	sessions.destroyErr = errDBDown
	r := newTestRouter(&service.Service{Authorization: auth, Sessions: sessions})

	w := httptest.NewRecorder()
	req := postJSON("/api/admin/login", `{"username":"admin","password":"pw"}`)
	req.AddCookie(sessionCookie("old"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if len(sessions.saved) != 0 {
		t.Fatalf("session must not be saved when the old one could not be dropped")
	}
}

func TestLogin_UsernameIsNotTrimmed(t *testing.T) {
	auth := &mockAuth{loginErr: service.ErrInvalidCredentials}
	r := newTestRouter(&service.Service{Authorization: auth})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/api/admin/login", `{"username":"admin ","password":"admin123"}`))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if auth.lastUsername != "admin " {
		t.Fatalf("username must reach Login verbatim, got %q", auth.lastUsername)
	}
}

func TestLogin_SecureCookieInProduction(t *testing.T) {
	auth := &mockAuth{loginUser: models.SessionUser{ID: 1, Username: "admin", Role: "admin"}}
	sessions := &mockSessions{saveToken: "tok"}
	r := newTestRouterWithOptions(&service.Service{Authorization: auth, Sessions: sessions}, Options{SecureCookies: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/api/admin/login", `{"username":"admin","password":"pw"}`))

	cookie := findCookie(w, sessionCookieName)
	if cookie == nil || !cookie.Secure {
		t.Fatalf("expected Secure cookie, got %+v", cookie)
	}
}

func TestLogin_BadRequest(t *testing.T) {
	for name, body := range map[string]string{
		"missing password": `{"username":"admin"}`,
		"missing username": `{"password":"pw"}`,
		"blank username":   `{"username":"  ","password":"pw"}`,
		"wrong types":      `{"username":1,"password":2}`,
		"not json":         `username=admin`,
	} {
		t.Run(name, func(t *testing.T) {
			auth := &mockAuth{}
			r := newTestRouter(&service.Service{Authorization: auth})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, postJSON("/api/admin/login", body))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), msgCredentialsMissing) {
				t.Fatalf("unexpected body %s", w.Body.String())
			}
			if auth.loginCalls != 0 {
				t.Fatalf("Login should not be called")
			}
		})
	}
}

func TestLogin_InvalidCredentialsIsGeneric(t *testing.T) {
	auth := &mockAuth{loginErr: service.ErrInvalidCredentials}
	sessions := &mockSessions{}
	r := newTestRouter(&service.Service{Authorization: auth, Sessions: sessions})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/api/admin/login", `{"username":"admin","password":"nope"}`))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var out struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Message != msgInvalidCredentials {
		t.Fatalf("message: got %q, want %q", out.Message, msgInvalidCredentials)
	}
	if len(sessions.saved) != 0 || findCookie(w, sessionCookieName) != nil {
		t.Fatalf("no session should be written on failure")
	}
}

func TestLogin_InternalErrors(t *testing.T) {
	cases := map[string]*service.Service{
		"lookup fails": {
			Authorization: &mockAuth{loginErr: errDBDown},
		},
		"session save fails": {
			Authorization: &mockAuth{loginUser: models.SessionUser{ID: 1, Username: "admin"}},
			Sessions:      &mockSessions{saveErr: errDBDown},
		},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			r := newTestRouter(s)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, postJSON("/api/admin/login", `{"username":"admin","password":"pw"}`))

			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", w.Code)
			}
			if strings.Contains(w.Body.String(), errDBDown.Error()) {
				t.Fatalf("internal error leaked to client: %s", w.Body.String())
			}
		})
	}
}

func TestCurrentUser(t *testing.T) {
	r := newTestRouter(&service.Service{Sessions: adminSessions("good")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/user", nil)
	req.AddCookie(sessionCookie("good"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var u models.SessionUser
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u != (models.SessionUser{ID: 1, Username: "admin", Role: "admin"}) {
		t.Fatalf("unexpected user %+v", u)
	}
}

func TestLogout_DestroysSessionAndClearsCookie(t *testing.T) {
	sessions := adminSessions("good")
	r := newTestRouter(&service.Service{Sessions: sessions})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	req.AddCookie(sessionCookie("good"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if sessions.destroyed != 1 {
		t.Fatalf("expected session destroyed once, got %d", sessions.destroyed)
	}
	cookie := findCookie(w, sessionCookieName)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookie)
	}
}

func TestLogout_WithoutSessionStillSucceeds(t *testing.T) {
	sessions := &mockSessions{}
	r := newTestRouter(&service.Service{Sessions: sessions})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var out struct {
		Success bool `json:"success"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if !out.Success {
		t.Fatalf("expected success=true, body=%s", w.Body.String())
	}
	if sessions.destroyed != 0 {
		t.Fatalf("nothing to destroy, got %d", sessions.destroyed)
	}
}
