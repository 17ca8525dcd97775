package domain

import "time"

// AdminUser is an administrator account. PasswordHash is a bcrypt hash.
type AdminUser struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is server-side proof of an admin sign-in, keyed by an opaque token
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Valid reports whether the session has not yet expired at now
func (s *Session) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// Identity is the authenticated admin attached to a request
type Identity struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
}
