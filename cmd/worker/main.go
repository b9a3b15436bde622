package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/config"
	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/repository/postgres"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/logger"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/messaging/redis"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/metrics"
	"github.com/IagoLeal1/GestaoLibelle-sub000/pkg/worker"
)

// WorkerConfig holds environment overrides for the outbox worker.
type WorkerConfig struct {
	BatchSize     int           `envconfig:"WORKER_BATCH_SIZE" default:"100"`
	PollInterval  time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"5s"`
	RetryAttempts int           `envconfig:"WORKER_RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"WORKER_RETRY_DELAY" default:"5s"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var workerCfg WorkerConfig
	if err := envconfig.Process("", &workerCfg); err != nil {
		log.Fatal().Err(err).Msg("failed to process worker configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("gestao", "worker")

	zl := log.Logger
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     workerCfg.BatchSize,
		PollInterval:  workerCfg.PollInterval,
		RetryAttempts: workerCfg.RetryAttempts,
		RetryDelay:    workerCfg.RetryDelay,
	}, appLogger, appMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go processor.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()
}
