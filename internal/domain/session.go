package domain

import "time"

type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
	RoleAdmin Role = "admin"
)

// HomePath is where a freshly authenticated user lands.
func (r Role) HomePath() string {
	switch r {
	case RoleAdmin:
		return "/admin-dashboard"
	case RoleHost:
		return "/host-dashboard"
	default:
		return "/house"
	}
}

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session holds the bearer credential and the profile it was issued for.
// It is replaced wholesale on login and logout, never mutated in place.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// BearerToken returns the credential, or false when none was issued.
func (s *Session) BearerToken() (string, bool) {
	if s == nil || s.Token == "" {
		return "", false
	}
	return s.Token, true
}

// Require fails with ErrUnauthenticated when the session has no credential.
func (s *Session) Require() error {
	if _, ok := s.BearerToken(); !ok {
		return ErrUnauthenticated
	}
	return nil
}
