// Package main is the entrypoint for the Tradegate auth gateway.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tradegate/tradegate/internal/audit"
	"github.com/tradegate/tradegate/internal/cache"
	"github.com/tradegate/tradegate/internal/config"
	"github.com/tradegate/tradegate/internal/handler"
	"github.com/tradegate/tradegate/internal/metrics"
	"github.com/tradegate/tradegate/internal/middleware"
	"github.com/tradegate/tradegate/internal/platform"
	"github.com/tradegate/tradegate/internal/repository"
	"github.com/tradegate/tradegate/internal/server"
	"github.com/tradegate/tradegate/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Metrics
	metricsRecorder := metrics.NewInMemory()

	// Trading platform client
	platformClient := platform.New(
		cfg.PlatformBaseURL,
		cfg.PlatformAPIKey,
		cfg.PlatformTimeout,
		logger,
		metricsRecorder,
	)
	logger.Info("platform client configured",
		"base_url", cfg.PlatformBaseURL,
		"timeout", cfg.PlatformTimeout,
	)

	// Audit pipeline
	auditPublisher := audit.NewPublisher(cacheClient.Client(), logger, metricsRecorder)
	auditRepo := repository.NewAuthEventRepository(repo)
	auditWorker := audit.NewWorker(
		cacheClient.Client(),
		auditRepo,
		logger,
		audit.NewConsumerID(),
		metricsRecorder,
	)

	// Account service
	accountService := service.NewAccountService(
		service.Config{
			SignupRedirectURL:   cfg.SignupRedirectURL,
			LoginRedirectFormat: cfg.LoginRedirectFormat,
		},
		platformClient,
		repo,
		auditPublisher,
		logger,
		metricsRecorder,
	)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(accountService, logger)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)

	// Setup router
	r := setupRouter(h, healthHandler, authHandler, metricsHandler, cacheClient, cfg, logger)

	// Create server
	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})

	// Start the audit worker. Registered for shutdown so in-flight
	// batches drain after the HTTP server stops accepting requests.
	if cfg.AuditEnabled {
		workerCtx, workerCancel := context.WithCancel(ctx)
		defer workerCancel()

		go func() {
			if err := auditWorker.Run(workerCtx); err != nil && err != context.Canceled {
				logger.Error("audit worker exited", "error", err)
			}
		}()
		srv.OnShutdown("audit-worker", auditWorker.Shutdown)
	} else {
		logger.Info("audit pipeline disabled")
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	metricsHandler *handler.MetricsHandler,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Operational metrics
	r.Get("/metrics", metricsHandler.Snapshot)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Cache:   cacheClient,
		Enabled: cfg.RateLimitEnabled,
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
	}

	// Auth endpoints: unauthenticated, rate limited per client IP
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/reset-password", authHandler.ResetPassword)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
