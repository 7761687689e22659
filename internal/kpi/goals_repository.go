package kpi

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/colegia/colegia/internal/platform/httpx"
)

type goalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository builds the Postgres-backed goal store.
func NewGoalRepository(pool *pgxpool.Pool) GoalRepository {
	return &goalRepository{pool: pool}
}

func (r *goalRepository) List(ctx context.Context) ([]Goal, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, metric, kind, target FROM kpi_goals ORDER BY metric`)
	if err != nil {
		return nil, fmt.Errorf("kpi: list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.Metric, &g.Kind, &g.Target); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *goalRepository) Get(ctx context.Context, metric string) (Goal, error) {
	var g Goal
	err := r.pool.QueryRow(ctx,
		`SELECT id, metric, kind, target FROM kpi_goals WHERE metric = $1`, metric,
	).Scan(&g.ID, &g.Metric, &g.Kind, &g.Target)
	if errors.Is(err, pgx.ErrNoRows) {
		return Goal{}, fmt.Errorf("%w: goal for %q", httpx.ErrNotFound, metric)
	}
	if err != nil {
		return Goal{}, fmt.Errorf("kpi: get goal: %w", err)
	}
	return g, nil
}

func (r *goalRepository) Upsert(ctx context.Context, goal Goal) (Goal, error) {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO kpi_goals (id, metric, kind, target, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (metric)
		DO UPDATE SET target = EXCLUDED.target, updated_at = now()
		RETURNING id, metric, kind, target`,
		goal.ID, goal.Metric, goal.Kind, goal.Target,
	).Scan(&goal.ID, &goal.Metric, &goal.Kind, &goal.Target)
	if err != nil {
		return Goal{}, fmt.Errorf("kpi: upsert goal: %w", err)
	}
	return goal, nil
}

func (r *goalRepository) Delete(ctx context.Context, metric string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM kpi_goals WHERE metric = $1`, metric)
	if err != nil {
		return fmt.Errorf("kpi: delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: goal for %q", httpx.ErrNotFound, metric)
	}
	return nil
}
