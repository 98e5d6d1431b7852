package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/bankledger/internal/adapter/http"
	"github.com/iho/bankledger/internal/adapter/http/handler"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/bankledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankledger/internal/adapter/repository/redis"
	"github.com/iho/bankledger/internal/adapter/repository/sqlite"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/eventpublisher"
	"github.com/iho/bankledger/internal/infrastructure/locker"
	"github.com/iho/bankledger/internal/infrastructure/logger"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/infrastructure/postgres"
	"github.com/iho/bankledger/internal/infrastructure/redis"
	"github.com/iho/bankledger/internal/usecase"
)

// repositories groups the storage-backed ports regardless of driver.
type repositories struct {
	txManager   usecase.TransactionManager
	accountRepo usecase.AccountRepository
	txnRepo     usecase.TransactionRepository
	holderRepo  usecase.HolderRepository
	outboxRepo  usecase.OutboxRepository
	pinger      handler.Pinger
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	repos, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}
	defer repos.close()
	log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

	checks := map[string]handler.Pinger{"store": repos.pinger}

	var cache usecase.Cache
	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisEnabled() {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()

		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks["redis"] = redisPinger{client: redisClient}
		log.Info().Msg("connected to redis")
	}

	m := metrics.New()
	idGen := postgresRepo.NewULIDGenerator()
	accountLocker := locker.New()

	outboxRepo := repos.outboxRepo
	if !cfg.OutboxEnabled {
		outboxRepo = postgresRepo.NewNullOutboxRepository()
		log.Info().Msg("outbox disabled, events will not be recorded")
	}

	holderUC := usecase.NewHolderUseCase(repos.holderRepo, cache, idGen)
	accountUC := usecase.NewAccountUseCase(repos.txManager, repos.accountRepo, repos.txnRepo, outboxRepo, repos.holderRepo, idGen, m)
	ledgerUC := usecase.NewLedgerUseCase(repos.txManager, repos.accountRepo, repos.txnRepo, outboxRepo, accountLocker, idGen, m)
	reconUC := usecase.NewReconciliationUseCase(repos.accountRepo, repos.txnRepo)

	if cfg.StoreDriver == config.DriverPostgres {
		ledgerUC = ledgerUC.WithRetrier(postgresRepo.NewRetrier(log))
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		HolderHandler:      handler.NewHolderHandler(holderUC),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC, reconUC),
		HealthHandler:      handler.NewHealthHandler(checks),
		Logging:            middleware.NewLoggingMiddleware(log),
		Recovery:           middleware.NewRecoveryMiddleware(log),
		Metrics:            middleware.NewMetricsMiddleware(m),
		RateLimiter:        rateLimiter,
		IdempotencyStore:   idempotencyStore,
	})

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	if cfg.OutboxEnabled {
		publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: repos.outboxRepo,
			Publisher:  eventpublisher.NewLogPublisher(log),
			Logger:     log,
			Stats:      m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxPollInterval,
			Retention:  cfg.OutboxRetention,
		})
		go func() {
			if err := publisher.Start(bgCtx); err != nil && bgCtx.Err() == nil {
				log.Error().Err(err).Msg("event publisher stopped")
			}
		}()
	}

	go func() {
		ticker := time.NewTicker(cfg.RateLimitPruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-bgCtx.Done():
				return
			case <-ticker.C:
				rateLimiter.Reset()
			}
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}

		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DatabaseMaxConns,
			MinConns:    cfg.DatabaseMinConns,
		})
		if err != nil {
			return nil, err
		}

		return &repositories{
			txManager:   postgresRepo.NewTxManager(pool),
			accountRepo: postgresRepo.NewAccountRepository(pool),
			txnRepo:     postgresRepo.NewTransactionRepository(pool),
			holderRepo:  postgresRepo.NewHolderRepository(pool),
			outboxRepo:  postgresRepo.NewOutboxRepository(pool),
			pinger:      pool,
			close:       pool.Close,
		}, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}

		return &repositories{
			txManager:   sqlite.NewTxManager(store),
			accountRepo: sqlite.NewAccountRepository(store),
			txnRepo:     sqlite.NewTransactionRepository(store),
			holderRepo:  sqlite.NewHolderRepository(store),
			outboxRepo:  sqlite.NewOutboxRepository(store),
			pinger:      store,
			close:       func() { store.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
