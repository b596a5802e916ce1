package quota

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type mockStore struct {
	counts     map[string]int64
	expireKeys []string
	expireNX   []bool
	incrErr    error
	expireErr  error
}

func newMockStore() *mockStore { return &mockStore{counts: map[string]int64{}} }

func (m *mockStore) IncrBy(_ context.Context, key string, val int64) (int64, error) {
	if m.incrErr != nil {
		return 0, m.incrErr
	}
	m.counts[key] += val
	return m.counts[key], nil
}

func (m *mockStore) Expire(_ context.Context, key string, _ time.Duration, nx bool) error {
	if m.expireErr != nil {
		return m.expireErr
	}
	m.expireKeys = append(m.expireKeys, key)
	m.expireNX = append(m.expireNX, nx)
	return nil
}

func TestHit_CountsWithinWindow(t *testing.T) {
	ms := newMockStore()
	now := time.Date(2025, time.June, 1, 12, 0, 10, 0, time.UTC)
	s := New(ms, "bconnected:", time.Minute).WithClock(func() time.Time { return now })

	for want := int64(1); want <= 3; want++ {
		n, err := s.Hit(context.Background(), "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != want {
			t.Errorf("Hit() = %d, want %d", n, want)
		}
	}
	for i, nx := range ms.expireNX {
		if !nx {
			t.Errorf("expire %d should use NX", i)
		}
	}
	if !strings.HasPrefix(ms.expireKeys[0], "bconnected:quota:1.2.3.4:") {
		t.Errorf("unexpected key %q", ms.expireKeys[0])
	}
}

func TestHit_NewWindowResets(t *testing.T) {
	ms := newMockStore()
	now := time.Date(2025, time.June, 1, 12, 0, 59, 0, time.UTC)
	s := New(ms, "", time.Minute).WithClock(func() time.Time { return now })

	_, _ = s.Hit(context.Background(), "c")
	now = now.Add(2 * time.Second)
	n, _ := s.Hit(context.Background(), "c")
	if n != 1 {
		t.Errorf("Hit() in new window = %d, want 1", n)
	}
}

func TestHit_Errors(t *testing.T) {
	boom := errors.New("boom")

	ms := newMockStore()
	ms.incrErr = boom
	if _, err := New(ms, "", time.Minute).Hit(context.Background(), "c"); !errors.Is(err, boom) {
		t.Errorf("expected incr error, got %v", err)
	}

	ms = newMockStore()
	ms.expireErr = boom
	_, err := New(ms, "", time.Minute).Hit(context.Background(), "c")
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "EXPIRE") {
		t.Errorf("expected expire error, got %v", err)
	}
}
