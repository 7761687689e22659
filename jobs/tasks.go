// Package jobs holds the background task definitions and the Asynq worker.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAlertScan is the task type for the cost-center alerting pass.
	TaskTypeAlertScan = "costcenter:alert_scan"
	// TaskTypeDashboardWarmup is the task type for pre-populating the
	// dashboard series cache.
	TaskTypeDashboardWarmup = "dashboard:warmup"
)

// AlertScanPayload parameterises a cost-center alert scan run.
type AlertScanPayload struct {
	Reason string `json:"reason"`
}

// NewAlertScanTask constructs an alert-scan Asynq task.
func NewAlertScanTask(payload AlertScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAlertScan, data), nil
}

// DashboardWarmupPayload selects which units to warm. Empty means every
// registered selector including the aggregate.
type DashboardWarmupPayload struct {
	Units []string `json:"units,omitempty"`
}

// NewDashboardWarmupTask constructs a warmup Asynq task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDashboardWarmup, data), nil
}
