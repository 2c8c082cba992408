package models

import "time"

// Session is the server-side state bound to one client session token.
// Username is empty while the session is anonymous.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession returns an anonymous session that expires after lifetime.
func NewSession(token string, now time.Time, lifetime time.Duration) *Session {
	return &Session{
		Token:     token,
		CreatedAt: now,
		ExpiresAt: now.Add(lifetime),
	}
}

// Authenticated reports whether an identity is bound to the session.
func (s *Session) Authenticated() bool {
	return s != nil && s.Username != ""
}

// Expired reports whether the session lifetime has passed at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
