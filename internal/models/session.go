package models

import "time"

// SessionUser is the identity stored in a session after login.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SessionData is the JSON document kept in the sessions table.
type SessionData struct {
	User *SessionUser `json:"user,omitempty"`
}

// Session is server-side state referenced by the signed session cookie.
// An empty ID means the session has not been persisted yet.
type Session struct {
	ID        string
	Data      SessionData
	ExpiresAt time.Time
}

// IsNew reports whether the session has never been saved.
func (s *Session) IsNew() bool {
	return s.ID == ""
}

// Authenticated reports whether a user is logged in on this session.
func (s *Session) Authenticated() bool {
	return s != nil && s.Data.User != nil
}
