package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/colegia/colegia/internal/finance"
	jobmetrics "github.com/colegia/colegia/internal/jobs"
	"github.com/colegia/colegia/internal/shared"
)

// DashboardWarmupJob pre-populates the monthly-series cache so the first
// dashboard request after an invalidation does not pay the aggregation cost.
type DashboardWarmupJob struct {
	Aggregator *finance.Aggregator
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(agg *finance.Aggregator, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{Aggregator: agg, Logger: logger, Metrics: metrics}
}

// Handle processes warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Aggregator == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskTypeDashboardWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	unitIDs := payload.Units
	if len(unitIDs) == 0 {
		for _, u := range j.Aggregator.Registry().List() {
			unitIDs = append(unitIDs, u.ID)
		}
	}

	logger := j.logger()
	started := time.Now()
	logger.Info("starting dashboard warmup", slog.Int("units", len(unitIDs)))

	views := []shared.View{shared.ViewCurrent, shared.ViewPrevious, shared.ViewYTD}
	warmed := 0
	for _, unitID := range unitIDs {
		unitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := j.warmUnit(unitCtx, unitID, views)
		cancel()
		if err != nil {
			resultErr = err
			logger.Error("warm unit", slog.String("unit", unitID), slog.Any("error", err))
			return resultErr
		}
		warmed++
	}

	logger.Info("completed dashboard warmup", slog.Int("warmed", warmed), slog.Duration("duration", time.Since(started)))
	return resultErr
}

func (j *DashboardWarmupJob) warmUnit(ctx context.Context, unitID string, views []shared.View) error {
	if _, err := j.Aggregator.MonthlySeries(ctx, unitID, shared.Period{}); err != nil {
		return err
	}
	for _, v := range views {
		if _, err := j.Aggregator.MonthlySeries(ctx, unitID, shared.Period{View: v}); err != nil {
			return err
		}
	}
	return nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskTypeDashboardWarmup))
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
