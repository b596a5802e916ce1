// Package user holds the authenticated principal and its session.
package user

import "time"

// User is an authenticated account.
type User struct {
	ID    string
	Name  string
	Email string
}

// Session is a signed-in user together with its token identity and lifetime.
type Session struct {
	User      User
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
