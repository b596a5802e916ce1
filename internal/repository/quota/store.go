// Package quota counts requests per client in fixed windows.
package quota

import (
	"context"
	"fmt"
	"time"
)

// store is the consumer interface for quota operations (ISP).
type store interface {
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Store implements fixed-window counters on top of DB (INCRBY + EXPIRE NX).
type Store struct {
	store  store
	prefix string
	window time.Duration
	now    func() time.Time
}

// New creates a quota store. Keys are namespaced by prefix and bucketed by window.
func New(s store, prefix string, window time.Duration) *Store {
	return &Store{store: s, prefix: prefix, window: window, now: time.Now}
}

// WithClock overrides the time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Hit records one request for client and returns the count in the current window.
func (s *Store) Hit(ctx context.Context, client string) (int64, error) {
	key := s.key(client)
	n, err := s.store.IncrBy(ctx, key, 1)
	if err != nil {
		return 0, fmt.Errorf("quota INCRBY %s: %w", key, err)
	}

	// Set TTL only if the key has no expiry yet (NX, not reset on repeat).
	if err := s.store.Expire(ctx, key, s.window, true); err != nil {
		return 0, fmt.Errorf("quota EXPIRE %s: %w", key, err)
	}
	return n, nil
}

func (s *Store) key(client string) string {
	bucket := s.now().Truncate(s.window).Unix()
	return fmt.Sprintf("%squota:%s:%d", s.prefix, client, bucket)
}
