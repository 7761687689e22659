package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/colegia/colegia/internal/app"
	"github.com/colegia/colegia/internal/costcenter"
	"github.com/colegia/colegia/internal/finance"
	"github.com/colegia/colegia/internal/platform/cache"
	"github.com/colegia/colegia/internal/platform/db"
	"github.com/colegia/colegia/internal/units"
	"github.com/colegia/colegia/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	registry := units.NewRegistry()
	source := finance.NewMockDataSource(cfg.MockSeed)
	seriesCache := finance.NewCache(redisClient, cfg.CacheTTL)
	aggregator := finance.NewAggregator(registry, source, seriesCache)

	costService := costcenter.NewService(costcenter.NewRepository(dbpool), registry, aggregator, seriesCache)

	alertScanJob := jobs.NewAlertScanJob(costService, logger, nil)
	warmupJob := jobs.NewDashboardWarmupJob(aggregator, logger, nil)

	alertScanTask, err := jobs.NewAlertScanTask(jobs.AlertScanPayload{Reason: "cron"})
	if err != nil {
		logger.Error("build alert scan task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask, err := jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeAlertScan, Handler: alertScanJob.Handle},
			{Type: jobs.TaskTypeDashboardWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 * * * *", Task: alertScanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "*/30 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init asynq client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()
	go enqueueWarmupOnBump(ctx, redisClient, client, logger)

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

// enqueueWarmupOnBump re-warms the series cache whenever a category mutation
// bumps the cache version.
func enqueueWarmupOnBump(ctx context.Context, redisClient *redis.Client, client *jobs.Client, logger *slog.Logger) {
	pubsub := redisClient.Subscribe(ctx, finance.BumpChannel)
	defer func() { _ = pubsub.Close() }()
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			if _, err := client.EnqueueDashboardWarmup(ctx, jobs.DashboardWarmupPayload{}); err != nil {
				logger.Warn("enqueue warmup", slog.Any("error", err))
			}
		}
	}
}
