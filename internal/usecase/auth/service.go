package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bconnected/marketplace/internal/domain"
	"github.com/bconnected/marketplace/internal/domain/user"
	"github.com/bconnected/marketplace/internal/logger"
	"github.com/bconnected/marketplace/internal/metrics"
)

// DefaultMaxAge is the session lifetime when Config leaves it zero.
const DefaultMaxAge = 30 * 24 * time.Hour

// Account is a sign-in identity with its plaintext password, hashed at startup.
type Account struct {
	ID       string
	Name     string
	Email    string
	Password string
}

// DemoAccounts returns the fixed demo user list.
func DemoAccounts() []Account {
	return []Account{{ID: "1", Name: "Demo User", Email: "user@example.com", Password: "password123"}}
}

// Config configures token signing.
type Config struct {
	Secret     []byte
	MaxAge     time.Duration
	BcryptCost int
}

type credential struct {
	user user.User
	hash []byte
}

type claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Service authenticates credentials and manages signed sessions.
type Service struct {
	byEmail   map[string]credential
	byID      map[string]user.User
	dummyHash []byte
	sessions  SessionStore
	secret    []byte
	maxAge    time.Duration
	now       func() time.Time
}

// New hashes account passwords and creates the service.
func New(accounts []Account, sessions SessionStore, cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultMaxAge
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	s := &Service{
		byEmail:  make(map[string]credential, len(accounts)),
		byID:     make(map[string]user.User, len(accounts)),
		sessions: sessions,
		secret:   cfg.Secret,
		maxAge:   cfg.MaxAge,
		now:      time.Now,
	}
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", a.Email, err)
		}
		u := user.User{ID: a.ID, Name: a.Name, Email: a.Email}
		s.byEmail[strings.ToLower(a.Email)] = credential{user: u, hash: hash}
		s.byID[a.ID] = u
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	s.dummyHash = dummy
	return s, nil
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Authorize checks an email/password pair. Any mismatch, including missing
// fields, returns ErrInvalidCredentials.
func (s *Service) Authorize(email, password string) (user.User, error) {
	if email == "" || password == "" {
		return user.User{}, domain.ErrInvalidCredentials
	}
	cred, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	hash := cred.hash
	if !ok {
		hash = s.dummyHash
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !ok {
		return user.User{}, domain.ErrInvalidCredentials
	}
	return cred.user, nil
}

// SignIn authorizes credentials and issues a signed session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, user.Session, error) {
	log := logger.FromContext(ctx)

	u, err := s.Authorize(email, password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("invalid").Inc()
		log.Info("sign-in rejected", zap.String("email", email))
		return "", user.Session{}, err
	}

	now := s.now().Truncate(time.Second)
	sess := user.Session{
		User:      u,
		TokenID:   uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.maxAge),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name:  u.Name,
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			ID:        sess.TokenID,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}).SignedString(s.secret)
	if err != nil {
		return "", user.Session{}, fmt.Errorf("sign session token: %w", err)
	}

	if err := s.sessions.Save(ctx, sess.TokenID, u.ID, s.maxAge); err != nil {
		return "", user.Session{}, fmt.Errorf("sign in: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	log.Info("signed in", zap.String("user_id", u.ID))
	return token, sess, nil
}

// Session resolves a token to its live session. Invalid, expired or revoked
// tokens return ErrUnauthenticated.
func (s *Service) Session(ctx context.Context, token string) (user.Session, error) {
	c, err := s.parse(token)
	if err != nil {
		return user.Session{}, err
	}

	userID, active, err := s.sessions.Lookup(ctx, c.ID)
	if err != nil {
		return user.Session{}, fmt.Errorf("session: %w", err)
	}
	if !active || userID != c.Subject {
		return user.Session{}, domain.ErrUnauthenticated
	}

	u, ok := s.byID[c.Subject]
	if !ok {
		return user.Session{}, domain.ErrUnauthenticated
	}
	return user.Session{
		User:      u,
		TokenID:   c.ID,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// SignOut revokes the session behind token.
func (s *Service) SignOut(ctx context.Context, token string) error {
	c, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.sessions.Revoke(ctx, c.ID); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	metrics.SessionsRevokedTotal.Inc()
	logger.FromContext(ctx).Info("signed out", zap.String("user_id", c.Subject))
	return nil
}

func (s *Service) parse(token string) (*claims, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	if c.ID == "" || c.Subject == "" || c.IssuedAt == nil {
		return nil, fmt.Errorf("%w: token missing claims", domain.ErrUnauthenticated)
	}
	return c, nil
}

