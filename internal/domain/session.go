package domain

import "time"

// SessionTTL is how long a session stays valid after login.
const SessionTTL = 7 * 24 * time.Hour

// Session represents a server-side login session. Only the SHA-256 hash of
// the opaque token is stored; the plaintext token lives in the client cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
