// Package session tracks issued session tokens so they can be revoked.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bconnected/marketplace/internal/db"
)

// store is the consumer interface for session operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Store maps token ids to user ids.
type Store struct {
	store  store
	prefix string
}

// New creates a session store with keys namespaced by prefix.
func New(s store, prefix string) *Store {
	return &Store{store: s, prefix: prefix}
}

// Save registers token id for userID until ttl elapses.
func (s *Store) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	if err := s.store.SetWithTTL(ctx, s.key(tokenID), []byte(userID), ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Lookup returns the user id bound to tokenID and whether the token is still active.
func (s *Store) Lookup(ctx context.Context, tokenID string) (string, bool, error) {
	data, err := s.store.Get(ctx, s.key(tokenID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("lookup session: %w", err)
	}
	return string(data), true, nil
}

// Revoke deletes tokenID. Revoking an unknown token is a no-op.
func (s *Store) Revoke(ctx context.Context, tokenID string) error {
	if err := s.store.Del(ctx, s.key(tokenID)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *Store) key(tokenID string) string {
	return s.prefix + "session:" + tokenID
}
