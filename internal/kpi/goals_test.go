package kpi

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colegia/colegia/internal/platform/httpx"
)

type memGoalRepo struct {
	goals map[string]Goal
}

func newMemGoalRepo() *memGoalRepo {
	return &memGoalRepo{goals: make(map[string]Goal)}
}

func (r *memGoalRepo) List(ctx context.Context) ([]Goal, error) {
	out := make([]Goal, 0, len(r.goals))
	for _, g := range r.goals {
		out = append(out, g)
	}
	return out, nil
}

func (r *memGoalRepo) Get(ctx context.Context, metric string) (Goal, error) {
	g, ok := r.goals[metric]
	if !ok {
		return Goal{}, fmt.Errorf("%w: goal for %q", httpx.ErrNotFound, metric)
	}
	return g, nil
}

func (r *memGoalRepo) Upsert(ctx context.Context, goal Goal) (Goal, error) {
	if existing, ok := r.goals[goal.Metric]; ok {
		goal.ID = existing.ID
	}
	r.goals[goal.Metric] = goal
	return goal, nil
}

func (r *memGoalRepo) Delete(ctx context.Context, metric string) error {
	if _, ok := r.goals[metric]; !ok {
		return fmt.Errorf("%w: goal for %q", httpx.ErrNotFound, metric)
	}
	delete(r.goals, metric)
	return nil
}

func TestGoalListSeedsDefaults(t *testing.T) {
	svc := NewGoalService(newMemGoalRepo())
	goals, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, goals, len(defaultGoals))
	for _, g := range goals {
		assert.NotEqual(t, uuid.Nil, g.ID)
		assert.Positive(t, g.Target)
	}
}

func TestGoalUpsertOverridesAndResetRestoresDefault(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(newMemGoalRepo())

	goal, err := svc.Upsert(ctx, MetricMargin, 28)
	require.NoError(t, err)
	assert.Equal(t, 28.0, goal.Target)
	assert.Equal(t, GoalKindPercent, goal.Kind)

	target, ok := svc.Target(ctx, MetricMargin)
	require.True(t, ok)
	assert.Equal(t, 28.0, target)

	require.NoError(t, svc.Reset(ctx, MetricMargin))
	target, ok = svc.Target(ctx, MetricMargin)
	require.True(t, ok)
	assert.Equal(t, defaultGoals[MetricMargin].target, target)
}

func TestGoalUpsertRejectsUnknownMetricAndBadTarget(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(newMemGoalRepo())

	_, err := svc.Upsert(ctx, "LTV/CAC", 10)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Upsert(ctx, MetricMargin, -5)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestGoalResetWithoutOverrideIsNoop(t *testing.T) {
	svc := NewGoalService(newMemGoalRepo())
	require.NoError(t, svc.Reset(context.Background(), MetricTicket))
}
