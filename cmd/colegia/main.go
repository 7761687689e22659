package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/colegia/colegia/internal/app"
	"github.com/colegia/colegia/internal/costcenter"
	"github.com/colegia/colegia/internal/dre"
	"github.com/colegia/colegia/internal/finance"
	"github.com/colegia/colegia/internal/kpi"
	"github.com/colegia/colegia/internal/observability"
	"github.com/colegia/colegia/internal/performance"
	"github.com/colegia/colegia/internal/platform/cache"
	"github.com/colegia/colegia/internal/platform/db"
	"github.com/colegia/colegia/internal/units"
	"github.com/colegia/colegia/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Warn("redis unavailable, serving without cache", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	registry := units.NewRegistry()
	source := finance.NewMockDataSource(cfg.MockSeed)
	var seriesCache *finance.Cache
	if redisClient != nil {
		seriesCache = finance.NewCache(redisClient, cfg.CacheTTL)
		if err := seriesCache.ListenForInvalidation(ctx, ""); err != nil {
			logger.Warn("cache invalidation listener", slog.Any("error", err))
		}
	}
	aggregator := finance.NewAggregator(registry, source, seriesCache)

	goalService := kpi.NewGoalService(kpi.NewGoalRepository(dbpool))
	calculator := kpi.NewCalculator(aggregator, goalService)

	builder, err := dre.NewBuilder(aggregator, dre.DefaultSchema())
	if err != nil {
		logger.Error("init dre builder", slog.Any("error", err))
		os.Exit(1)
	}

	costService := costcenter.NewService(costcenter.NewRepository(dbpool), registry, aggregator, seriesCache)
	rankingService := performance.NewService(aggregator)
	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		UnitsHandler:       units.NewHandler(logger, registry),
		FinanceHandler:     finance.NewHandler(logger, aggregator),
		KPIHandler:         kpi.NewHandler(logger, calculator, goalService),
		DREHandler:         dre.NewHandler(logger, builder, registry),
		CostCenterHandler:  costcenter.NewHandler(logger, costService),
		PerformanceHandler: performance.NewHandler(logger, rankingService),
		DashboardHandler:   app.NewDashboardHandler(logger, aggregator, calculator, costService),
		JobsHandler:        jobs.NewHandler(inspector, logger),
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
