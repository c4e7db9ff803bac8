package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/iho/minibank/internal/adapter/http"
	"github.com/iho/minibank/internal/adapter/http/handler"
	"github.com/iho/minibank/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/minibank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/minibank/internal/adapter/repository/redis"
	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/infrastructure/config"
	"github.com/iho/minibank/internal/infrastructure/eventconsumer"
	"github.com/iho/minibank/internal/infrastructure/logger"
	"github.com/iho/minibank/internal/infrastructure/logging"
	"github.com/iho/minibank/internal/infrastructure/metrics"
	"github.com/iho/minibank/internal/infrastructure/postgres"
	"github.com/iho/minibank/internal/infrastructure/redis"
	"github.com/iho/minibank/internal/usecase"
)

const migrationsPath = "internal/infrastructure/postgres/migrations"

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.SetGlobalLevel(log.Logger.GetLevel())

	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat).Logger

	largeAmountThreshold, err := decimal.NewFromString(cfg.FraudLargeAmountThreshold)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid fraud large amount threshold")
	}

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient)
	counters := redisRepo.NewCounterStore(redisClient)
	locks := redisRepo.NewLockManager(redisClient)
	bus := redisRepo.NewEventBus(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	transferUC := usecase.NewTransferUseCase(usecase.TransferUseCaseConfig{
		AccountRepo: accountRepo,
		TxnRepo:     txnRepo,
		Locks:       locks,
		Bus:         bus,
		Cache:       cache,
		IDGen:       idGen,
		Metrics:     appMetrics,
		Logger:      slogger,
		LockWait:    cfg.LockWait,
		LockLease:   cfg.LockLease,
	})
	fraudUC := usecase.NewFraudUseCase(usecase.FraudUseCaseConfig{
		Counters:  counters,
		AuditRepo: auditRepo,
		Bus:       bus,
		IDGen:     idGen,
		Rules: usecase.FraudRules{
			LargeAmountThreshold: largeAmountThreshold,
			MaxTransfersPerHour:  cfg.FraudMaxTransfersPerHour,
			SuspiciousHourStart:  cfg.FraudSuspiciousHourStart,
			SuspiciousHourEnd:    cfg.FraudSuspiciousHourEnd,
		},
		Metrics: appMetrics,
		Logger:  slogger,
	})
	settlementUC := usecase.NewSettlementUseCase(usecase.SettlementUseCaseConfig{
		TxManager:   txManager,
		AccountRepo: accountRepo,
		TxnRepo:     txnRepo,
		Cache:       cache,
		Retrier:     retrier,
		Metrics:     appMetrics,
		Logger:      slogger,
	})
	accountUC := usecase.NewAccountUseCase(accountRepo, cache, slogger)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, txnRepo)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	transferHandler := handler.NewTransferHandler(transferUC)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	rateLimiter := middleware.NewRateLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitBurst)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		Logger:                log.Logger,
		AccountHandler:        accountHandler,
		TransferHandler:       transferHandler,
		ReconciliationHandler: reconciliationHandler,
		HealthHandler:         healthHandler,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		RateLimiter:           rateLimiter,
	})

	// Start event consumers
	consumerCtx, stopConsumers := context.WithCancel(ctx)
	defer stopConsumers()

	consumers := []*eventconsumer.Consumer{
		eventconsumer.NewConsumer(eventconsumer.Config{
			Bus:      bus,
			Stream:   domain.StreamTransferRequested,
			Group:    cfg.ConsumerGroupFraud,
			Name:     cfg.ConsumerName,
			Handler:  eventconsumer.FraudHandler(fraudUC),
			Interval: cfg.PollInterval,
			Batch:    cfg.PollBatchSize,
			Block:    cfg.PollBlock,
			Metrics:  appMetrics,
			Logger:   slogger,
		}),
		eventconsumer.NewConsumer(eventconsumer.Config{
			Bus:      bus,
			Stream:   domain.StreamTransferValidated,
			Group:    cfg.ConsumerGroupSettlement,
			Name:     cfg.ConsumerName,
			Handler:  eventconsumer.CompletionHandler(settlementUC),
			Interval: cfg.PollInterval,
			Batch:    cfg.PollBatchSize,
			Block:    cfg.PollBlock,
			Metrics:  appMetrics,
			Logger:   slogger,
		}),
		eventconsumer.NewConsumer(eventconsumer.Config{
			Bus:      bus,
			Stream:   domain.StreamTransferRejected,
			Group:    cfg.ConsumerGroupSettlement,
			Name:     cfg.ConsumerName,
			Handler:  eventconsumer.RejectionHandler(settlementUC),
			Interval: cfg.PollInterval,
			Batch:    cfg.PollBatchSize,
			Block:    cfg.PollBlock,
			Metrics:  appMetrics,
			Logger:   slogger,
		}),
	}

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-consumerCtx.Done():
				return
			case <-ticker.C:
				rateLimiter.CleanupLimiters()
			}
		}
	}()

	var wg sync.WaitGroup
	for _, c := range consumers {
		wg.Add(1)
		go func(c *eventconsumer.Consumer) {
			defer wg.Done()
			if err := c.Start(consumerCtx); err != nil && consumerCtx.Err() == nil {
				log.Error().Err(err).Msg("event consumer failed")
			}
		}(c)
	}

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

	// Stop accepting HTTP traffic first, then drain the consumers so
	// in-flight settlements finish before the process exits.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	stopConsumers()
	wg.Wait()

	log.Info().Msg("server stopped")
}
