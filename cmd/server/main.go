package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iho/gowallet/internal/adapter/gateway"
	httpAdapter "github.com/iho/gowallet/internal/adapter/http"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	postgresRepo "github.com/iho/gowallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gowallet/internal/adapter/repository/redis"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/infrastructure/notifier"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/infrastructure/redis"
	"github.com/iho/gowallet/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "gowallet",
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool, cfg.LockTimeout, m)
	cachedWalletRepo := redisRepo.NewCachedWalletRepository(
		walletRepo,
		redisRepo.NewCache(redisClient),
		cfg.WalletCacheTTL,
		m,
		log,
	)
	transferRepo := postgresRepo.NewTransferRepository(pool)
	notificationRepo := postgresRepo.NewNotificationRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	// External services
	gatewayClient := gateway.NewClient(gateway.Config{
		Timeout:            cfg.GatewayTimeout,
		RetryAttempts:      cfg.GatewayRetryAttempts,
		RetryDelay:         cfg.GatewayRetryDelay,
		InsecureSkipVerify: !cfg.IsProduction(),
	}, log)
	authorizer := gateway.NewAuthorizer(gatewayClient, cfg.AuthorizeURL, m, log)
	notifierGW := gateway.NewNotifier(gatewayClient, cfg.NotifyURL, log)

	// Initialize use cases
	transferUC := usecase.NewTransferUseCase(
		txManager,
		cachedWalletRepo,
		transferRepo,
		notificationRepo,
		authorizer,
		retrier,
		idGen,
		log,
	)
	walletUC := usecase.NewWalletUseCase(cachedWalletRepo, transferRepo)

	// Notification dispatcher
	dispatcher := notifier.New(notificationRepo, notifierGW, notifier.Config{
		Interval:    cfg.NotifyWorkerInterval,
		MaxAttempts: cfg.NotifyMaxAttempts,
		RetryBase:   cfg.NotifyRetryBase,
		BatchSize:   cfg.NotifyBatchSize,
	}, m, log)

	dispatcherCtx, stopDispatcher := context.WithCancel(ctx)
	go dispatcher.Run(dispatcherCtx)

	// Sample pool stats for the connections gauge
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-dispatcherCtx.Done():
				return
			case <-ticker.C:
				m.DBConnections.Set(float64(pool.Stat().TotalConns()))
			}
		}
	}()

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransferHandler: handler.NewTransferHandler(transferUC, m, cfg.MinTransferCents, cfg.MaxTransferCents),
		WalletHandler:   handler.NewWalletHandler(walletUC),
		HealthHandler:   handler.NewHealthHandler(pool, redisClient),
		Logger:          log,
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
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	stopDispatcher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
