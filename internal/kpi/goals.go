package kpi

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/colegia/colegia/internal/platform/httpx"
)

// Goal is a user-set target for a named metric. Resetting a goal restores
// the product default for that metric.
type Goal struct {
	ID      uuid.UUID `json:"id"`
	Metric  string    `json:"metric"`
	Kind    string    `json:"kind"`
	Current float64   `json:"current"`
	Target  float64   `json:"target"`
}

// Goal kinds, mirroring how the dashboard renders the value.
const (
	GoalKindCurrency = "currency"
	GoalKindPercent  = "percent"
	GoalKindCount    = "count"
)

type goalDefault struct {
	kind   string
	target float64
}

// defaultGoals seed the goal table on first access per metric.
var defaultGoals = map[string]goalDefault{
	MetricRevenue:     {kind: GoalKindCurrency, target: 250000},
	MetricExpense:     {kind: GoalKindCurrency, target: 190000},
	MetricMargin:      {kind: GoalKindPercent, target: 22},
	MetricTicket:      {kind: GoalKindCurrency, target: 240},
	MetricCostStudent: {kind: GoalKindCurrency, target: 185},
	MetricDelinquency: {kind: GoalKindPercent, target: 3},
}

// GoalRepository persists goal overrides.
type GoalRepository interface {
	List(ctx context.Context) ([]Goal, error)
	Get(ctx context.Context, metric string) (Goal, error)
	Upsert(ctx context.Context, goal Goal) (Goal, error)
	Delete(ctx context.Context, metric string) error
}

// GoalService merges stored overrides with hardcoded defaults and serves
// as the calculator's TargetSource.
type GoalService struct {
	repo GoalRepository

	mu      sync.RWMutex
	targets map[string]float64
}

// NewGoalService constructs the service.
func NewGoalService(repo GoalRepository) *GoalService {
	return &GoalService{repo: repo, targets: make(map[string]float64)}
}

// List returns every goal: stored overrides first, defaults for the rest.
func (s *GoalService) List(ctx context.Context) ([]Goal, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(stored))
	for _, g := range stored {
		seen[g.Metric] = struct{}{}
	}
	out := stored
	for metric, def := range defaultGoals {
		if _, ok := seen[metric]; ok {
			continue
		}
		out = append(out, Goal{ID: uuid.New(), Metric: metric, Kind: def.kind, Target: def.target})
	}
	s.remember(out)
	return out, nil
}

// Upsert stores a target override for a metric.
func (s *GoalService) Upsert(ctx context.Context, metric string, target float64) (Goal, error) {
	def, ok := defaultGoals[metric]
	if !ok {
		return Goal{}, fmt.Errorf("%w: metric %q has no goal", httpx.ErrValidation, metric)
	}
	if target <= 0 {
		return Goal{}, fmt.Errorf("%w: target must be positive", httpx.ErrValidation)
	}
	goal, err := s.repo.Upsert(ctx, Goal{ID: uuid.New(), Metric: metric, Kind: def.kind, Target: target})
	if err != nil {
		return Goal{}, err
	}
	s.mu.Lock()
	s.targets[metric] = goal.Target
	s.mu.Unlock()
	return goal, nil
}

// Reset drops the override so the default target applies again.
func (s *GoalService) Reset(ctx context.Context, metric string) error {
	def, ok := defaultGoals[metric]
	if !ok {
		return fmt.Errorf("%w: metric %q has no goal", httpx.ErrValidation, metric)
	}
	if err := s.repo.Delete(ctx, metric); err != nil && !errors.Is(err, httpx.ErrNotFound) {
		return err
	}
	s.mu.Lock()
	s.targets[metric] = def.target
	s.mu.Unlock()
	return nil
}

// Target implements TargetSource. Lookup order: cached override, stored
// override, hardcoded default.
func (s *GoalService) Target(ctx context.Context, metric string) (float64, bool) {
	s.mu.RLock()
	if target, ok := s.targets[metric]; ok {
		s.mu.RUnlock()
		return target, true
	}
	s.mu.RUnlock()

	if goal, err := s.repo.Get(ctx, metric); err == nil {
		s.mu.Lock()
		s.targets[metric] = goal.Target
		s.mu.Unlock()
		return goal.Target, true
	}
	if def, ok := defaultGoals[metric]; ok {
		return def.target, true
	}
	return 0, false
}

func (s *GoalService) remember(goals []Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range goals {
		s.targets[g.Metric] = g.Target
	}
}
