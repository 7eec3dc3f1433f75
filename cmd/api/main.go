package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"brazucas-cork/internal/common/pagination"
	"brazucas-cork/internal/config"
	"brazucas-cork/internal/domain/entity"
	pgRepo "brazucas-cork/internal/infra/adapter/persistence/postgres"
	"brazucas-cork/internal/infra/cache"
	"brazucas-cork/internal/infra/db"
	"brazucas-cork/internal/infra/notifier"
	"brazucas-cork/internal/observability/logging"
	"brazucas-cork/internal/observability/tracing"
	"brazucas-cork/internal/repository"

	adUC "brazucas-cork/internal/usecase/ad"
	"brazucas-cork/internal/usecase/author"
	modUC "brazucas-cork/internal/usecase/moderation"
	newsUC "brazucas-cork/internal/usecase/news"
	"brazucas-cork/internal/usecase/notify"
	userUC "brazucas-cork/internal/usecase/user"

	hhttp "brazucas-cork/internal/handler/http"
	had "brazucas-cork/internal/handler/http/ad"
	hauth "brazucas-cork/internal/handler/http/auth"
	"brazucas-cork/internal/handler/http/middleware"
	hmod "brazucas-cork/internal/handler/http/moderation"
	hnews "brazucas-cork/internal/handler/http/news"
	"brazucas-cork/internal/handler/http/pathutil"
	"brazucas-cork/internal/handler/http/requestid"
	huser "brazucas-cork/internal/handler/http/user"
)

const (
	maxRequestBody  = 1 << 20
	requestTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
	cleanupInterval = time.Minute
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.ValidateJWTSecret(); err != nil {
		logger.Error("JWT secret validation failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

// components holds what the server needs at runtime and must release on exit.
type components struct {
	Handler     http.Handler
	AuthLimiter *middleware.RateLimiter
	Notifier    notify.Service
	Cache       *cache.NicknameCache
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, tracing.Options{
		ServiceName:  "brazucas-cork-api",
		Version:      cfg.Version,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRatio:  cfg.TraceSampleRatio,
	})
	if err != nil {
		return err
	}

	database, err := initDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	comps, err := setupServer(ctx, cfg, logger, database)
	if err != nil {
		return err
	}

	go comps.AuthLimiter.StartCleanup(ctx, cleanupInterval, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           comps.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}
	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	if err := comps.Notifier.Shutdown(shutdownCtx); err != nil {
		logger.Warn("notification drain incomplete", slog.Any("error", err))
	}
	if comps.Cache != nil {
		if err := comps.Cache.Close(); err != nil {
			logger.Warn("failed to close cache", slog.Any("error", err))
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
	return nil
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	database, err := db.Open(ctx, cfg.DatabaseURL, db.ConnectionConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(database); err != nil {
		_ = database.Close()
		return nil, err
	}
	logger.Info("database ready")
	return database, nil
}

// initCache connects the nickname cache. Redis is optional: without it
// every enrichment goes to the users table.
func initCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) *cache.NicknameCache {
	if cfg.RedisURL == "" {
		return nil
	}
	opts := cache.DefaultRedisOptions()
	opts.URL = cfg.RedisURL
	c, err := cache.NewNicknameCache(ctx, opts)
	if err != nil {
		logger.Warn("redis unavailable, nickname cache disabled", slog.Any("error", err))
		return nil
	}
	logger.Info("nickname cache enabled")
	return c
}

// initNotifier builds the channels that announce pending content.
func initNotifier(cfg *config.Config, logger *slog.Logger) notify.Service {
	channels := []notify.Channel{
		notify.NewSlackChannel(notifier.SlackConfig{
			Enabled:    cfg.Slack.Enabled,
			WebhookURL: cfg.Slack.WebhookURL,
			Timeout:    cfg.Slack.Timeout,
		}),
		notify.NewDiscordChannel(notifier.DiscordConfig{
			Enabled:    cfg.Discord.Enabled,
			WebhookURL: cfg.Discord.WebhookURL,
			Timeout:    cfg.Discord.Timeout,
		}),
	}
	return notify.NewService(channels, cfg.Notify.MaxConcurrent, cfg.Notify.ReviewBaseURL, logger)
}

// setupServer builds services and returns the HTTP handler with all routes
// and middleware.
func setupServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, database *sql.DB) (*components, error) {
	security, err := config.LoadSecurityConfig(cfg.SecurityConfigPath)
	if err != nil {
		return nil, err
	}

	userRepo := pgRepo.NewUserRepo(database)
	newsRepo := pgRepo.NewNewsRepo(database)
	adRepo := pgRepo.NewAdRepo(database)

	nickCache := initCache(ctx, cfg, logger)
	authors := &author.Resolver{Users: userRepo, Logger: logger}
	if nickCache != nil {
		authors.Cache = nickCache
	}

	notifySvc := initNotifier(cfg, logger)

	modSvc := &modUC.Service{
		Stores: map[entity.Kind]repository.ApprovalStore{
			entity.KindNews: newsRepo,
			entity.KindAd:   adRepo,
		},
		Audit:     pgRepo.NewStatusHistoryRepo(database),
		Announcer: notifySvc,
		Authors:   authors,
		Logger:    logger,
	}
	newsSvc := &newsUC.Service{Repo: newsRepo, Authors: authors, Tracker: modSvc}
	adSvc := &adUC.Service{Repo: adRepo, Authors: authors, Tracker: modSvc}
	userSvc := &userUC.Service{
		Repo: userRepo,
		Policy: userUC.PasswordPolicy{
			MinLength:     security.MinPasswordLength(),
			WeakPasswords: security.WeakPasswords(),
		},
		SelfRoles: security.SelfRegistrationRoles(),
		Logger:    logger,
	}

	if cfg.AdminBootstrap() {
		if _, err := userSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Nickname, cfg.Admin.Password); err != nil {
			return nil, err
		}
	}

	tokens := hauth.NewTokenIssuer(cfg.JWTSecret, security.TokenIssuer(), security.TokenTTL())

	proxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustProxy, cfg.RateLimit.TrustedProxies)
	if err != nil {
		return nil, err
	}
	authLimiter := middleware.NewRateLimiter("auth", cfg.RateLimit.AuthRequests, cfg.RateLimit.Window,
		middleware.NewIPExtractor(proxies))

	corsCfg, err := middleware.NewCORSConfig(cfg.CORS.AllowedOrigins, cfg.CORS.MaxAge, logger)
	if err != nil {
		return nil, err
	}

	page := pagination.NewConfig(cfg.Pagination.DefaultLimit, cfg.Pagination.MaxLimit)
	mux := http.NewServeMux()

	hauth.Handler{Users: userSvc, Tokens: tokens, Logger: logger}.Register(mux, authLimiter.Middleware)
	huser.Handler{Svc: userSvc}.Register(mux)
	hnews.Handler{Svc: newsSvc, Pagination: page, Logger: logger}.Register(mux)
	had.Handler{Svc: adSvc, Pagination: page, Logger: logger}.Register(mux)
	hmod.Handler{Svc: modSvc, Kind: entity.KindNews, Prefix: "/news", Logger: logger}.Register(mux)
	hmod.Handler{Svc: modSvc, Kind: entity.KindAd, Prefix: "/ads", Logger: logger}.Register(mux)
	hmod.SummaryHandler{Svc: modSvc}.Register(mux)

	health := &hhttp.HealthHandler{DB: database, Notifier: notifySvc, Version: cfg.Version}
	if nickCache != nil {
		health.Cache = nickCache
	}
	mux.Handle("GET /health", health)
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	return &components{
		Handler:     applyMiddleware(logger, mux, corsCfg, tokens),
		AuthLimiter: authLimiter,
		Notifier:    notifySvc,
		Cache:       nickCache,
	}, nil
}

// applyMiddleware wraps the handler with the middleware chain, outermost
// first: Recover, Request ID, Tracing, Logging, Metrics, CORS, Validation,
// Body Limit, Timeout, Authentication.
func applyMiddleware(logger *slog.Logger, h http.Handler, cors middleware.CORSConfig, tokens *hauth.TokenIssuer) http.Handler {
	return hhttp.Chain(h,
		hhttp.Recover(logger),
		requestid.Middleware,
		tracing.Middleware(pathutil.NormalizePath),
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware,
		middleware.CORS(cors),
		hhttp.InputValidation(),
		hhttp.LimitRequestBody(maxRequestBody),
		hhttp.Timeout(requestTimeout),
		hauth.Authenticate(tokens),
	)
}
