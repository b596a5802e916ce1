package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bconnected/marketplace/internal/domain"
	"github.com/bconnected/marketplace/internal/domain/user"
	"github.com/bconnected/marketplace/internal/logger"
)

// DefaultCookieName is the session cookie used when none is configured.
const DefaultCookieName = "bconnected_session"

type sessionKey struct{}

// SessionResolver maps a token to its live session.
type SessionResolver interface {
	Session(ctx context.Context, token string) (user.Session, error)
}

// SessionFromContext returns the session attached by SessionMiddleware.
func SessionFromContext(ctx context.Context) (user.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(user.Session)
	return s, ok
}

// SessionMiddleware attaches the caller's session, if any, to the request
// context. Requests without a valid session pass through anonymously.
func SessionMiddleware(resolver SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := resolver.Session(r.Context(), token)
			switch {
			case err == nil:
				ctx := context.WithValue(r.Context(), sessionKey{}, sess)
				ctx = logger.With(ctx, zap.String("user_id", sess.User.ID))
				r = r.WithContext(ctx)
			case errors.Is(err, domain.ErrUnauthenticated):
				// stale or revoked token: anonymous
			default:
				logger.FromContext(r.Context()).Warn("session lookup failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tokenFromRequest prefers the Authorization header over the cookie.
func tokenFromRequest(r *http.Request, cookieName string) string {
	const bearerPrefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimSpace(auth[len(bearerPrefix):])
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

func sessionCookie(name, token string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearedCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
