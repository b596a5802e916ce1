package auth

import (
	"context"
	"time"
)

// SessionStore records issued token ids so sign-out can revoke them.
type SessionStore interface {
	Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, tokenID string) (userID string, active bool, err error)
	Revoke(ctx context.Context, tokenID string) error
}
