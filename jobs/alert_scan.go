package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/colegia/colegia/internal/costcenter"
	jobmetrics "github.com/colegia/colegia/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// AlertScanJob runs the cost-center alerting pass and persists the results.
type AlertScanJob struct {
	Costs   *costcenter.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewAlertScanJob wires dependencies for the alert-scan handler.
func NewAlertScanJob(costs *costcenter.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *AlertScanJob {
	return &AlertScanJob{Costs: costs, Logger: logger, Metrics: metrics}
}

// Handle processes alert-scan tasks.
func (j *AlertScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Costs == nil {
		return errors.New("alert scan: handler not configured")
	}
	var payload AlertScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskTypeAlertScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	if payload.Reason != "" {
		logger = logger.With(slog.String("reason", payload.Reason))
	}
	started := time.Now()
	logger.Info("starting alert scan")

	scanCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	alerts, err := j.Costs.RunAlertScan(scanCtx)
	if err != nil {
		resultErr = err
		logger.Error("alert scan failed", slog.Any("error", err))
		return resultErr
	}
	for _, alert := range alerts {
		j.metrics().AddAlerts(string(alert.Type), 1)
	}
	logger.Info("completed alert scan", slog.Int("alerts", len(alerts)), slog.Duration("duration", time.Since(started)))
	return resultErr
}

func (j *AlertScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeAlertScan))
	}
	return slog.Default().With(slog.String("job", TaskTypeAlertScan))
}

func (j *AlertScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
