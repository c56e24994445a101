package entity

import "time"

// Session is a server-side bearer credential. Token is an opaque random
// string; a session is valid iff ExpiresAt is in the future.
type Session struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// Valid reports whether the session has not expired at the given instant.
func (s *Session) Valid(now time.Time) bool { return s.ExpiresAt.After(now) }
