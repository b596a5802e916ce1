package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bconnected/marketplace/internal/domain"
	"github.com/bconnected/marketplace/internal/domain/search/request"
	"github.com/bconnected/marketplace/internal/logger"
	authuc "github.com/bconnected/marketplace/internal/usecase/auth"
	chatuc "github.com/bconnected/marketplace/internal/usecase/chat"
	healthuc "github.com/bconnected/marketplace/internal/usecase/health"
	marketplaceuc "github.com/bconnected/marketplace/internal/usecase/marketplace"
	profileuc "github.com/bconnected/marketplace/internal/usecase/profile"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// QuotaCounter counts chat requests per client in the current window.
type QuotaCounter interface {
	Hit(ctx context.Context, client string) (int64, error)
}

// Config holds transport-level settings.
type Config struct {
	CookieName   string
	CookieSecure bool
	// ChatQuota is the per-client request limit per quota window. 0 disables it.
	ChatQuota int64
}

// Server implements ServerInterface.
type Server struct {
	marketplace   *marketplaceuc.Service
	profiles      *profileuc.Service
	chat          *chatuc.Service
	auth          *authuc.Service
	health        *healthuc.Service
	quota         QuotaCounter
	cfg           Config
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server. quota can be nil.
func NewServer(
	marketplace *marketplaceuc.Service,
	profiles *profileuc.Service,
	chat *chatuc.Service,
	auth *authuc.Service,
	health *healthuc.Service,
	quota QuotaCounter,
	cfg Config,
	logger *zap.Logger,
) *Server {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	s := &Server{
		marketplace: marketplace,
		profiles:    profiles,
		chat:        chat,
		auth:        auth,
		health:      health,
		quota:       quota,
		cfg:         cfg,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrExpertNotFound, http.StatusNotFound, ""),
		detailHandler(domain.ErrInvalidQuery, http.StatusBadRequest),
		sentinelHandler(domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"),
		sentinelHandler(domain.ErrUnauthenticated, http.StatusUnauthorized, ""),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ""),
	}
	return s
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ListExperts handles GET /api/experts.
func (s *Server) ListExperts(w http.ResponseWriter, r *http.Request, params ListExpertsParams) {
	bounds := s.marketplace.Options().PriceBounds
	price := request.PriceRange{
		Min: derefInt(params.MinPrice, bounds.Min),
		Max: derefInt(params.MaxPrice, bounds.Max),
	}

	req, err := request.New(
		derefString(params.Q),
		derefStrings(params.Category),
		price,
		derefStrings(params.Experience),
		derefStrings(params.Availability),
	)
	if err != nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err))
		return
	}

	listing := s.marketplace.Search(r.Context(), &req, derefInt(params.Page, 1), derefInt(params.PageSize, 0))
	writeJSON(w, http.StatusOK, listingToAPI(listing))
}

// GetExpert handles GET /api/experts/{id}.
func (s *Server) GetExpert(w http.ResponseWriter, r *http.Request, id ExpertID) {
	e, err := s.profiles.Get(id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, expertToAPI(&e))
}

// ListRelatedExperts handles GET /api/experts/{id}/related.
func (s *Server) ListRelatedExperts(w http.ResponseWriter, r *http.Request, id ExpertID, params ListRelatedExpertsParams) {
	related, err := s.profiles.Related(id, derefInt(params.Count, profileuc.DefaultRelatedCount))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RelatedExperts{Experts: expertsToAPI(related)})
}

// GetExpertCalendar handles GET /api/experts/{id}/calendar.
func (s *Server) GetExpertCalendar(w http.ResponseWriter, r *http.Request, id ExpertID, params GetExpertCalendarParams) {
	var date *time.Time
	if params.Date != nil {
		d := params.Date.Time
		date = &d
	}
	cal, err := s.profiles.Calendar(id, date)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, calendarToAPI(cal))
}

// ListFilters handles GET /api/filters.
func (s *Server) ListFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, filtersToAPI(s.marketplace.Options()))
}

// SignIn handles POST /api/auth/signin.
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	token, sess, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	http.SetCookie(w, sessionCookie(s.cfg.CookieName, token, sess.ExpiresAt, s.cfg.CookieSecure))
	writeJSON(w, http.StatusOK, sessionToAPI(token, sess))
}

// GetSession handles GET /api/auth/session. Anonymous callers get {}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, Session{})
		return
	}
	writeJSON(w, http.StatusOK, sessionToAPI("", sess))
}

// SignOut handles POST /api/auth/signout. Signing out without a session is a no-op.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	token := tokenFromRequest(r, s.cfg.CookieName)
	if token != "" {
		if err := s.auth.SignOut(r.Context(), token); err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
			s.handleDomainError(w, r, err)
			return
		}
	}
	http.SetCookie(w, clearedCookie(s.cfg.CookieName, s.cfg.CookieSecure))
	writeJSON(w, http.StatusOK, Session{})
}

// ParamErrorHandler reports parameter binding failures as JSON 400s.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrExpertNotFound,
		domain.ErrInvalidQuery,
		domain.ErrInvalidCredentials,
		domain.ErrUnauthenticated,
		domain.ErrRateLimited,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// An empty message falls back to the sentinel text.
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := message
		if msg == "" {
			msg = safeDomainMessage(err)
		}
		writeError(w, status, msg)
		return true
	}
}

// detailHandler is like sentinelHandler but echoes the full error chain,
// for errors built from client input only.
func detailHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.log(r)
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) log(r *http.Request) *zap.Logger {
	return logger.FromContextOr(r.Context(), s.logger)
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefStrings(p *[]string) []string {
	if p == nil {
		return nil
	}
	return *p
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
