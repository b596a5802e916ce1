package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bconnected/marketplace/internal/db/memory"
	"github.com/bconnected/marketplace/internal/domain"
	"github.com/bconnected/marketplace/internal/repository/session"
)

var testSecret = []byte("test-secret")

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	clk := &testClock{now: time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStore().WithClock(clk.Now)
	svc, err := New(DemoAccounts(), session.New(store, "test:"), Config{
		Secret:     testSecret,
		MaxAge:     time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatal(err)
	}
	return svc.WithClock(clk.Now), clk
}

func TestNew_RequiresSecret(t *testing.T) {
	if _, err := New(DemoAccounts(), nil, Config{}); err == nil {
		t.Fatal("expected error without secret")
	}
}

func TestAuthorize(t *testing.T) {
	svc, _ := newService(t)

	u, err := svc.Authorize("user@example.com", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "1" || u.Name != "Demo User" || u.Email != "user@example.com" {
		t.Errorf("unexpected user %+v", u)
	}

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "user@example.com", "nope"},
		{"unknown email", "other@example.com", "password123"},
		{"missing email", "", "password123"},
		{"missing password", "user@example.com", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Authorize(tc.email, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestAuthorize_PasswordsAreHashed(t *testing.T) {
	svc, _ := newService(t)
	cred := svc.byEmail["user@example.com"]
	if string(cred.hash) == "password123" || !strings.HasPrefix(string(cred.hash), "$2") {
		t.Errorf("expected bcrypt hash, got %q", cred.hash)
	}
}

func TestSignIn_SessionLifecycle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	token, sess, err := svc.SignIn(ctx, "user@example.com", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.User.ID != "1" || sess.TokenID == "" {
		t.Errorf("unexpected session %+v", sess)
	}
	if !sess.ExpiresAt.Equal(sess.IssuedAt.Add(time.Hour)) {
		t.Errorf("unexpected expiry %v", sess.ExpiresAt)
	}

	got, err := svc.Session(ctx, token)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if got.User.Email != "user@example.com" || got.TokenID != sess.TokenID {
		t.Errorf("unexpected resolved session %+v", got)
	}

	if err := svc.SignOut(ctx, token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := svc.Session(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated after sign-out, got %v", err)
	}
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	svc, _ := newService(t)
	token, _, err := svc.SignIn(context.Background(), "user@example.com", "bad")
	if !errors.Is(err, domain.ErrInvalidCredentials) || token != "" {
		t.Errorf("expected ErrInvalidCredentials and no token, got %q, %v", token, err)
	}
}

func TestSession_Expired(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	token, _, err := svc.SignIn(ctx, "user@example.com", "password123")
	if err != nil {
		t.Fatal(err)
	}
	clk.now = clk.now.Add(time.Hour + time.Second)

	if _, err := svc.Session(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for expired token, got %v", err)
	}
}

func TestSession_RejectsForeignTokens(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ID:        "jti",
		IssuedAt:  jwt.NewNumericDate(clk.now),
		ExpiresAt: jwt.NewNumericDate(clk.now.Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatal(err)
	}

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": forged,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Session(ctx, token); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Errorf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestSession_UnregisteredTokenID(t *testing.T) {
	svc, clk := newService(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: "Demo User",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ID:        "never-saved",
			IssuedAt:  jwt.NewNumericDate(clk.now),
			ExpiresAt: jwt.NewNumericDate(clk.now.Add(time.Hour)),
		},
	}).SignedString(testSecret)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Session(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSignOut_InvalidToken(t *testing.T) {
	svc, _ := newService(t)
	if err := svc.SignOut(context.Background(), "garbage"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}
