package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/services"
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/bank_ledger/internal/handlers"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/SscSPs/bank_ledger/internal/platform/config"
	"github.com/SscSPs/bank_ledger/internal/repositories/database/mysql"
	"github.com/SscSPs/bank_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/bank_ledger/internal/repositories/memory"
	"github.com/SscSPs/bank_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title Bank Ledger API
// @version 1.0
// @description Accounts, deposits, withdrawals and transfers with exact decimal balances.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx := context.Background()

	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	limiters, closeLimiters, err := buildRateLimiters(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize rate limiters", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeLimiters()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(cfg.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewServiceContainer(cfg, repos)
	handlers.RegisterRoutes(r, cfg, serviceContainer, limiters)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server exited")
}

// openStore connects the configured substrate, applies its migrations and
// returns the repositories plus a close func.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMySQL:
		db, err := database.NewGormMySQL(ctx, cfg.MySQLDSN, cfg.LogLevel, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Running database migrations...")
		if err := database.MigrateMySQL(cfg.MySQLDSN, filepath.Join(cfg.MigrationsPath, "mysql")); err != nil {
			database.CloseGormDB(db)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return mysql.NewRepositoryProvider(db, cfg.LedgerLockTimeout), func() { database.CloseGormDB(db) }, nil

	case config.StorageMemory:
		logger.Warn("Using in-memory storage; all data is lost on exit")
		return memory.NewRepositoryProvider(memory.NewStore(cfg.LedgerLockTimeout)), func() {}, nil

	default:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Running database migrations...")
		if err := database.MigratePostgres(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			database.ClosePgxPool(pool)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(pool, cfg.LedgerLockTimeout), func() { database.ClosePgxPool(pool) }, nil
	}
}

// buildRateLimiters creates the login and API limiters, sharing counters
// through redis when RATE_LIMIT_REDIS_URL is set.
func buildRateLimiters(ctx context.Context, cfg *config.Config, logger *slog.Logger) (handlers.RateLimiters, func(), error) {
	var redisClient *redis.Client
	closeFn := func() {}

	if cfg.RateLimitRedisURL != "" {
		opts, err := redis.ParseURL(cfg.RateLimitRedisURL)
		if err != nil {
			return handlers.RateLimiters{}, closeFn, err
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = redisClient.Close()
			return handlers.RateLimiters{}, closeFn, err
		}
		closeFn = func() { _ = redisClient.Close() }
		logger.Info("Rate limit counters stored in redis")
	}

	var limiters handlers.RateLimiters
	var err error
	if cfg.LoginRateLimit != "" {
		if limiters.Login, err = middleware.NewRateLimiter(cfg.LoginRateLimit, "ledger-login", redisClient); err != nil {
			closeFn()
			return handlers.RateLimiters{}, func() {}, err
		}
	}
	if cfg.APIRateLimit != "" {
		if limiters.API, err = middleware.NewRateLimiter(cfg.APIRateLimit, "ledger-api", redisClient); err != nil {
			closeFn()
			return handlers.RateLimiters{}, func() {}, err
		}
	}
	return limiters, closeFn, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
