package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lendkite/loan-application-service/internal/adapters/cache"
	eventadapter "github.com/lendkite/loan-application-service/internal/adapters/events"
	httpadapter "github.com/lendkite/loan-application-service/internal/adapters/http"
	"github.com/lendkite/loan-application-service/internal/adapters/memory"
	"github.com/lendkite/loan-application-service/internal/adapters/postgres"
	"github.com/lendkite/loan-application-service/internal/application"
	"github.com/lendkite/loan-application-service/internal/domain/loan"
	"github.com/lendkite/loan-application-service/internal/ports"
)

// Runtime owns every connection the service holds and tears them down in
// reverse dependency order on shutdown: consumption stops first, the
// store/cache/broker clients close last.
type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	consumer   *eventadapter.ConsumerWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	var closers []io.Closer

	var repo ports.ApplicationRepository
	if cfg.DatabaseURL != "" {
		db, connErr := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if connErr != nil {
			return nil, connErr
		}
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return nil, dbErr
		}
		if migErr := postgres.RunMigrations(ctx, db); migErr != nil {
			_ = sqlDB.Close()
			return nil, migErr
		}
		closers = append(closers, sqlDB)
		repo = postgres.NewApplicationRepository(db)
	} else {
		logger.WarnContext(ctx, "no database configured, using in-memory repository")
		repo = memory.NewApplicationRepository()
	}

	if cfg.RedisURL != "" {
		redisClient, cacheErr := cache.Connect(ctx, cfg.RedisURL)
		if cacheErr != nil {
			closeAll(closers)
			return nil, cacheErr
		}
		closers = append(closers, redisClient)
		repo = cache.NewCachedApplicationRepository(repo, cache.NewRedisCache(redisClient), cfg.CacheTTL)
	} else {
		logger.WarnContext(ctx, "no redis configured, reads go straight to the store")
	}

	publisher := ports.EventPublisher(eventadapter.NewLoggingPublisher(logger))
	consumerAdapter := eventadapter.Consumer(eventadapter.NewNoopConsumer())
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, pubErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			application.EventTypeApplicationSubmitted: cfg.KafkaTopicApplication,
		})
		if pubErr != nil {
			logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher", "error", pubErr)
		} else {
			publisher = kafkaPublisher
			closers = append(closers, kafkaPublisher)
		}

		kafkaConsumer, conErr := eventadapter.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, cfg.KafkaTopicApplication)
		if conErr != nil {
			logger.WarnContext(ctx, "kafka consumer disabled, using noop consumer", "error", conErr)
		} else {
			consumerAdapter = kafkaConsumer
			closers = append(closers, kafkaConsumer)
		}
	} else {
		logger.WarnContext(ctx, "no kafka brokers configured, submissions are logged only")
	}

	processor := loan.NewProcessor(loan.Rules{
		MinAmount:         cfg.LoanMinAmount,
		MaxAmount:         cfg.LoanMaxAmount,
		MinTermMonths:     cfg.LoanMinTermMonths,
		MaxTermMonths:     cfg.LoanMaxTermMonths,
		ApprovalThreshold: cfg.LoanApprovalThreshold,
	})
	service := application.NewService(application.Dependencies{
		Repository: repo,
		Publisher:  publisher,
		Processor:  processor,
	})

	handler := httpadapter.NewHandler(service)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpadapter.NewRouter(handler, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	consumer := eventadapter.NewConsumerWorker(logger, consumerAdapter, service, cfg.ConsumerPollInterval)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		consumer:   consumer,
		cleanupFn: func(context.Context) {
			closeAll(closers)
		},
	}, nil
}

func closeAll(closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i].Close()
	}
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	r.logger.InfoContext(ctx, "http server listening", "addr", r.httpServer.Addr)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunConsumer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := r.consumer.Run(ctx)
	r.cleanupFn(context.Background())
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
