package costcenter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/colegia/colegia/internal/platform/httpx"
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err carries a Postgres unique-constraint
// violation anywhere in its chain.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Repository persists categories and their alerts.
type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (Category, error)
	InsertCategory(ctx context.Context, c Category) (Category, error)
	UpdateCategory(ctx context.Context, c Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListAlerts(ctx context.Context) ([]Alert, error)
	InsertAlert(ctx context.Context, a Alert) error
	MarkAlertRead(ctx context.Context, id uuid.UUID) error
	DeleteAlert(ctx context.Context, id uuid.UUID) error
	DeleteUnreadAlerts(ctx context.Context) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the Postgres-backed store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, color, icon, is_active, accounts, unit_breakdown, created_at, updated_at
		FROM cost_center_categories
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("costcenter: list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) GetCategory(ctx context.Context, id uuid.UUID) (Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, color, icon, is_active, accounts, unit_breakdown, created_at, updated_at
		FROM cost_center_categories
		WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, fmt.Errorf("%w: category %s", httpx.ErrNotFound, id)
	}
	if err != nil {
		return Category{}, fmt.Errorf("costcenter: get category: %w", err)
	}
	return c, nil
}

func (r *repository) InsertCategory(ctx context.Context, c Category) (Category, error) {
	breakdown, err := json.Marshal(c.UnitBreakdown)
	if err != nil {
		return Category{}, err
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err = r.pool.Exec(ctx, `
		INSERT INTO cost_center_categories (id, name, description, color, icon, is_active, accounts, unit_breakdown, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Name, c.Description, c.Color, c.Icon, c.IsActive, c.Accounts, breakdown, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Category{}, fmt.Errorf("%w: category %q", httpx.ErrDuplicate, c.Name)
		}
		return Category{}, fmt.Errorf("costcenter: insert category: %w", err)
	}
	return c, nil
}

func (r *repository) UpdateCategory(ctx context.Context, c Category) error {
	breakdown, err := json.Marshal(c.UnitBreakdown)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE cost_center_categories
		SET name = $2, description = $3, color = $4, icon = $5, is_active = $6, accounts = $7, unit_breakdown = $8, updated_at = now()
		WHERE id = $1`,
		c.ID, c.Name, c.Description, c.Color, c.Icon, c.IsActive, c.Accounts, breakdown)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category %q", httpx.ErrDuplicate, c.Name)
		}
		return fmt.Errorf("costcenter: update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %s", httpx.ErrNotFound, c.ID)
	}
	return nil
}

func (r *repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cost_center_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("costcenter: delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %s", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) ListAlerts(ctx context.Context) ([]Alert, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, title, message, threshold, current_value, is_read, created_at
		FROM cost_center_alerts
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("costcenter: list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.Type, &a.Title, &a.Message, &a.Threshold, &a.CurrentValue, &a.IsRead, &a.CreatedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (r *repository) InsertAlert(ctx context.Context, a Alert) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cost_center_alerts (id, type, title, message, threshold, current_value, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Type, a.Title, a.Message, a.Threshold, a.CurrentValue, a.IsRead, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("costcenter: insert alert: %w", err)
	}
	return nil
}

func (r *repository) MarkAlertRead(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE cost_center_alerts SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("costcenter: mark alert read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: alert %s", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) DeleteAlert(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cost_center_alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("costcenter: delete alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: alert %s", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) DeleteUnreadAlerts(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cost_center_alerts WHERE is_read = FALSE`)
	if err != nil {
		return fmt.Errorf("costcenter: clear unread alerts: %w", err)
	}
	return nil
}

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	var breakdown []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.IsActive, &c.Accounts, &breakdown, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Category{}, err
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &c.UnitBreakdown); err != nil {
			return Category{}, fmt.Errorf("costcenter: decode unit breakdown: %w", err)
		}
	}
	return c, nil
}
