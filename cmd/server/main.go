package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/cafehenola/ledger/internal/adapter/http"
	"github.com/cafehenola/ledger/internal/adapter/http/handler"
	"github.com/cafehenola/ledger/internal/adapter/http/middleware"
	postgresRepo "github.com/cafehenola/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/cafehenola/ledger/internal/adapter/repository/redis"
	"github.com/cafehenola/ledger/internal/infrastructure/auth"
	"github.com/cafehenola/ledger/internal/infrastructure/config"
	"github.com/cafehenola/ledger/internal/infrastructure/logger"
	"github.com/cafehenola/ledger/internal/infrastructure/metrics"
	"github.com/cafehenola/ledger/internal/infrastructure/postgres"
	"github.com/cafehenola/ledger/internal/infrastructure/redis"
	"github.com/cafehenola/ledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Apply migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	obligationRepo := postgresRepo.NewObligationRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	liquidationRepo := postgresRepo.NewLiquidationRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger, m)

	// Initialize use cases
	obligationUC := usecase.NewObligationUseCase(txManager, obligationRepo, auditRepo, idGen, m)
	ledgerUC := usecase.NewLedgerUseCase(txManager, obligationRepo, movementRepo, auditRepo, idGen, m)
	balanceUC := usecase.NewBalanceUseCase(obligationRepo, movementRepo, m)
	liquidationUC := usecase.NewLiquidationUseCase(txManager, retrier, obligationRepo, movementRepo, liquidationRepo, auditRepo, idGen, m)

	// Initialize handlers
	obligationHandler := handler.NewObligationHandler(obligationUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC, balanceUC)
	liquidationHandler := handler.NewLiquidationHandler(liquidationUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		if cfg.JWTSecret == "" {
			appLogger.Fatal().Msg("AUTH_ENABLED requires JWT_SECRET")
		}
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ObligationHandler:  obligationHandler,
		LedgerHandler:      ledgerHandler,
		LiquidationHandler: liquidationHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m),
		Logging:            middleware.NewLoggingMiddleware(appLogger),
		Metrics:            middleware.NewMetricsMiddleware(m),
		JWTManager:         jwtManager,
		AuthEnabled:        cfg.AuthEnabled,
		MetricsCollector:   m,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
