package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BradenHooton/quill/internal/auth"
	"github.com/BradenHooton/quill/internal/background"
	"github.com/BradenHooton/quill/internal/cache"
	"github.com/BradenHooton/quill/internal/config"
	"github.com/BradenHooton/quill/internal/database"
	"github.com/BradenHooton/quill/internal/handlers"
	"github.com/BradenHooton/quill/internal/metrics"
	middlewareCustom "github.com/BradenHooton/quill/internal/middleware"
	"github.com/BradenHooton/quill/internal/repositories"
	"github.com/BradenHooton/quill/internal/routes"
	"github.com/BradenHooton/quill/internal/services"
	pkghttp "github.com/BradenHooton/quill/pkg/http"
	pkglogger "github.com/BradenHooton/quill/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("cache_backend", cfg.Cache.Backend))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := db.Migrate(ctx)
		cancel()
		if err != nil {
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db.Pool)
	postRepo := repositories.NewPostRepository(db.Pool)

	// Reset tokens and login counters
	var (
		resetStore   cache.ExpiringStore
		loginCounter cache.AttemptCounter
	)
	switch cfg.Cache.Backend {
	case config.CacheBackendPostgres:
		resetStore = cache.NewPostgresStore(db.Pool)
		loginCounter = cache.NewPostgresCounter(db.Pool)
	default:
		resetStore = cache.NewMemoryStore()
		loginCounter = cache.NewMemoryCounter()
	}

	cleanupManager := background.NewCleanupManager(map[string]background.Sweeper{
		"reset_tokens":   resetStore,
		"login_attempts": loginCounter,
	}, logger, cfg.Cache.SweepInterval)

	// Initialize token issuer
	tokenIssuer := auth.NewTokenIssuer(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)

	auditLogger := pkglogger.NewAuditLogger(logger)

	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:    cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs:  cfg.Auth.TimingDelayRandomMs,
		DelayOnSuccess: cfg.Auth.TimingDelayOnSuccess,
	})

	// Reset token delivery. Without a sender address tokens are only logged.
	var notifier services.ResetNotifier = services.NewLogResetNotifier(logger)
	if cfg.Email.FromAddress != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		sesNotifier, err := services.NewSESResetNotifier(ctx, cfg.Email.AWSRegion, cfg.Email.FromAddress, cfg.Email.ResetURLBase, logger)
		cancel()
		if err != nil {
			logger.Error("failed to initialize email service", slog.Any("error", err))
			os.Exit(1)
		}
		notifier = sesNotifier
	}

	// Initialize services
	credentialService := services.NewCredentialService(userRepo, logger)
	authService := services.NewAuthService(services.AuthServiceDeps{
		Credentials: credentialService,
		Tokens:      tokenIssuer,
		ResetTokens: services.NewResetTokenCache(resetStore, cfg.Auth.ResetTokenExpiry, logger),
		Limiter: services.NewLoginRateLimiter(loginCounter, services.LoginRateLimitConfig{
			MaxAttempts: cfg.Auth.LoginRateLimitMax,
			Window:      cfg.Auth.LoginRateLimitWindow,
		}, logger),
		Notifier:    notifier,
		Timing:      timingDelay,
		Users:       userRepo,
		Logger:      logger,
		AuditLogger: auditLogger,
	})
	userService := services.NewUserService(userRepo, credentialService, logger, auditLogger)
	contentService := services.NewContentService(postRepo, logger)

	// Bootstrap first admin user if configured
	if cfg.Admin.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := userService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			logger.Error("failed to ensure admin user", slog.Any("error", err))
		}
		cancel()
	}

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	cookieConfig := auth.CookieConfig{
		Domain:   cfg.Auth.CookieDomain,
		Secure:   cfg.Auth.CookieSecure,
		SameSite: cfg.Auth.CookieSameSite,
	}

	registry := metrics.NewRegistry()

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.Metrics)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(cfg.Server.AllowedOrigins))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, ipConfig, cookieConfig),
		Posts:   handlers.NewPostHandler(contentService),
		Users:   handlers.NewUserHandler(userService),
		Health:  handlers.Health(db),
		Metrics: metrics.Handler(registry),
	}, tokenIssuer, middlewareCustom.RateLimitConfig{
		RequestsPerMinute: cfg.Auth.PublicRequestsPerMinute,
		IPConfig:          ipConfig,
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
