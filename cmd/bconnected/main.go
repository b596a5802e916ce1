package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bconnected/marketplace/internal/config"
	"github.com/bconnected/marketplace/internal/db"
	"github.com/bconnected/marketplace/internal/db/memory"
	dbRedis "github.com/bconnected/marketplace/internal/db/redis"
	"github.com/bconnected/marketplace/internal/domain/search/request"
	logpkg "github.com/bconnected/marketplace/internal/logger"
	"github.com/bconnected/marketplace/internal/metrics"
	exprepo "github.com/bconnected/marketplace/internal/repository/expert"
	quotarepo "github.com/bconnected/marketplace/internal/repository/quota"
	sessionrepo "github.com/bconnected/marketplace/internal/repository/session"
	chiTransport "github.com/bconnected/marketplace/internal/transport/chi"
	mcpTransport "github.com/bconnected/marketplace/internal/transport/mcp"
	openaiTransport "github.com/bconnected/marketplace/internal/transport/openai"
	authuc "github.com/bconnected/marketplace/internal/usecase/auth"
	chatuc "github.com/bconnected/marketplace/internal/usecase/chat"
	healthuc "github.com/bconnected/marketplace/internal/usecase/health"
	marketplaceuc "github.com/bconnected/marketplace/internal/usecase/marketplace"
	profileuc "github.com/bconnected/marketplace/internal/usecase/profile"
	"github.com/bconnected/marketplace/internal/usecase/tools"
	"github.com/bconnected/marketplace/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bconnected:", err)
		os.Exit(1)
	}
}

func run() error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level, zap.String("version", version.Version))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting B-Connected marketplace API",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("sessions_driver", cfg.Sessions.Driver),
		zap.String("completion_model", cfg.Completion.Model),
	)

	secret, err := sessionSecret(env, cfg.Secrets.SessionSecret)
	if err != nil {
		return err
	}
	if cfg.Secrets.SessionSecret == "" {
		logger.Warn("SESSION_SECRET not set, using an ephemeral secret; sessions end on restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openSessionStore(ctx, cfg.Sessions)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Session store ready", zap.String("driver", cfg.Sessions.Driver))

	metrics.Register()

	dir, err := exprepo.Seed(nil)
	if err != nil {
		return fmt.Errorf("build expert directory: %w", err)
	}
	logger.Info("Expert directory loaded", zap.Int("experts", dir.Len()))

	completer := openaiTransport.NewCompleter(&openaiTransport.Config{
		APIKey:   cfg.Secrets.OpenAIAPIKey,
		BaseURL:  cfg.Completion.BaseURL,
		Model:    cfg.Completion.Model,
		Provider: cfg.Completion.Provider,
		Logger:   logger,
	})
	if !completer.Configured() {
		logger.Warn("OPENAI_API_KEY not set, chat requests will fail")
	}

	registry, err := tools.NewRegistry(tools.NewFindExperts(dir, cfg.Tools.FindExperts.MaxResults))
	if err != nil {
		return fmt.Errorf("build tool registry: %w", err)
	}

	marketSvc := marketplaceuc.New(dir, marketplaceuc.Config{
		DefaultPageSize: cfg.Marketplace.DefaultPageSize,
		MaxPageSize:     cfg.Marketplace.MaxPageSize,
		PriceBounds:     request.PriceRange{Min: cfg.Marketplace.MinPrice, Max: cfg.Marketplace.MaxPrice},
		StrictFilters:   cfg.Marketplace.StrictFilters,
	})
	profileSvc := profileuc.New(dir)
	chatSvc := chatuc.New(completer, registry, chatuc.Config{
		SystemPrompt: cfg.Chat.SystemPrompt,
		MaxSteps:     cfg.Chat.MaxSteps,
		MaxDuration:  cfg.Chat.MaxDuration(),
	})
	authSvc, err := authuc.New(authuc.DemoAccounts(), sessionrepo.New(store, cfg.Sessions.KeyPrefix), authuc.Config{
		Secret: secret,
		MaxAge: cfg.Auth.SessionMaxAge(),
	})
	if err != nil {
		return fmt.Errorf("build auth service: %w", err)
	}
	healthSvc := healthuc.New(store, completer)

	// Pass a nil interface, not a typed nil pointer, when the quota is off.
	var quota chiTransport.QuotaCounter
	if cfg.Chat.Quota.RequestsPerMinute > 0 {
		quota = quotarepo.New(store, cfg.Sessions.KeyPrefix, time.Minute)
	}

	server := chiTransport.NewServer(marketSvc, profileSvc, chatSvc, authSvc, healthSvc, quota, chiTransport.Config{
		CookieName:   cfg.Auth.CookieName,
		CookieSecure: cfg.Auth.CookieSecure,
		ChatQuota:    cfg.Chat.Quota.RequestsPerMinute,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.SessionMiddleware(authSvc, cfg.Auth.CookieName))
	r.Use(metrics.Middleware())

	if cfg.MCP.Enabled {
		mcpSrv, err := mcpTransport.NewServer(registry, version.Version, logger)
		if err != nil {
			return fmt.Errorf("build mcp server: %w", err)
		}
		r.Handle("/mcp", mcpTransport.Handler(mcpSrv))
		logger.Info("MCP endpoint enabled", zap.String("path", "/mcp"))
	}

	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.ParamErrorHandler,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

// openSessionStore connects the configured session store and waits until it answers.
func openSessionStore(ctx context.Context, cfg config.SessionsConfig) (db.Store, error) {
	var store db.Store
	switch cfg.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown sessions driver %q", cfg.Driver)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("session store not ready: %w", err)
	}
	return store, nil
}

// sessionSecret returns the configured secret. Outside prod a missing secret
// is replaced by a random one.
func sessionSecret(env, configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	if env == logpkg.EnvProd {
		return nil, errors.New("SESSION_SECRET is required in prod")
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	return b, nil
}
