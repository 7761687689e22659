package costcenter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/colegia/colegia/internal/finance"
	"github.com/colegia/colegia/internal/platform/httpx"
	"github.com/colegia/colegia/internal/shared"
	"github.com/colegia/colegia/internal/units"
)

// Service derives per-unit category views and owns the category lifecycle.
// Percentages are recomputed on every read over the unit's live expense
// pool, so uncategorised spend surfaces as coverage below 100% and nothing
// derived survives an edit.
type Service struct {
	repo     Repository
	registry *units.Registry
	agg      *finance.Aggregator
	cache    *finance.Cache
}

// NewService wires the cost-center service. agg feeds the monthly-growth
// metric; cache, when present, is bumped after every mutation.
func NewService(repo Repository, registry *units.Registry, agg *finance.Aggregator, cache *finance.Cache) *Service {
	return &Service{repo: repo, registry: registry, agg: agg, cache: cache}
}

// CategoriesByUnit returns every category scoped to the selector, with
// amounts from the unit breakdown and percentages over that unit's pool.
func (s *Service) CategoriesByUnit(ctx context.Context, unitID string) ([]Category, error) {
	if !s.registry.Known(unitID) {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownUnit, unitID)
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return scopeToUnit(categories, unitID, s.registry.IsAggregate(unitID), s.expensePool(ctx, unitID)), nil
}

// expensePool returns the unit's latest-month expense total, the denominator
// for category percentages. Zero when the aggregator is unavailable, which
// makes scopeToUnit fall back to the sum of category amounts.
func (s *Service) expensePool(ctx context.Context, unitID string) float64 {
	if s.agg == nil {
		return 0
	}
	series, err := s.agg.MonthlySeries(ctx, unitID, shared.Period{View: shared.ViewCurrent})
	if err != nil || len(series) == 0 {
		return 0
	}
	return series[len(series)-1].Expense
}

// Metrics summarises the category distribution across all units.
func (s *Service) Metrics(ctx context.Context) (Metrics, error) {
	categories, err := s.CategoriesByUnit(ctx, units.AggregateID)
	if err != nil {
		return Metrics{}, err
	}

	m := Metrics{CategoryCount: len(categories)}
	for i, c := range categories {
		m.TotalExpenses += c.TotalAmount
		if i == 0 || c.Percentage > m.HighestCategory.Percentage {
			m.HighestCategory = CategorySummary{Name: c.Name, Amount: c.TotalAmount, Percentage: c.Percentage}
		}
		if i == 0 || c.Percentage < m.LowestCategory.Percentage {
			m.LowestCategory = CategorySummary{Name: c.Name, Amount: c.TotalAmount, Percentage: c.Percentage}
		}
	}
	if m.CategoryCount > 0 {
		m.AveragePerCategory = m.TotalExpenses / float64(m.CategoryCount)
	}
	m.MonthlyGrowth = s.monthlyGrowth(ctx)
	return m, nil
}

// monthlyGrowth reports the month-over-month expense movement across the
// chain, zero when the aggregator is unavailable or the base month is zero.
func (s *Service) monthlyGrowth(ctx context.Context) float64 {
	if s.agg == nil {
		return 0
	}
	series, err := s.agg.MonthlySeries(ctx, units.AggregateID, shared.Period{})
	if err != nil || len(series) < 2 {
		return 0
	}
	prev := series[len(series)-2].Expense
	if prev == 0 {
		return 0
	}
	return (series[len(series)-1].Expense - prev) / prev * 100
}

// CategoryInput carries the user-editable category fields.
type CategoryInput struct {
	Name          string       `json:"name" validate:"required,min=2,max=80"`
	Description   string       `json:"description" validate:"max=280"`
	Color         string       `json:"color" validate:"omitempty,hexcolor"`
	Icon          string       `json:"icon" validate:"max=50"`
	IsActive      *bool        `json:"isActive"`
	Accounts      []string     `json:"accounts" validate:"dive,required"`
	UnitBreakdown []UnitAmount `json:"unitBreakdown" validate:"dive"`
}

// Add creates a category from the modal payload.
func (s *Service) Add(ctx context.Context, in CategoryInput) (Category, error) {
	if err := s.checkBreakdown(in.UnitBreakdown); err != nil {
		return Category{}, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	c := Category{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Color:         in.Color,
		Icon:          in.Icon,
		IsActive:      active,
		Accounts:      in.Accounts,
		UnitBreakdown: in.UnitBreakdown,
	}
	created, err := s.repo.InsertCategory(ctx, c)
	if err != nil {
		return Category{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Update applies an edit-modal patch to an existing category.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (Category, error) {
	if err := s.checkBreakdown(in.UnitBreakdown); err != nil {
		return Category{}, err
	}
	current, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	current.Name = strings.TrimSpace(in.Name)
	current.Description = strings.TrimSpace(in.Description)
	current.Color = in.Color
	current.Icon = in.Icon
	if in.IsActive != nil {
		current.IsActive = *in.IsActive
	}
	current.Accounts = in.Accounts
	current.UnitBreakdown = in.UnitBreakdown
	if err := s.repo.UpdateCategory(ctx, current); err != nil {
		return Category{}, err
	}
	s.invalidate(ctx)
	return current, nil
}

// Delete removes a category. Remaining percentages renormalise on the next
// read because the denominator shrank.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Alerts returns the current alert list, newest first.
func (s *Service) Alerts(ctx context.Context) ([]Alert, error) {
	return s.repo.ListAlerts(ctx)
}

// AcknowledgeAlert flips an alert to read.
func (s *Service) AcknowledgeAlert(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkAlertRead(ctx, id)
}

// DismissAlert removes an alert entirely.
func (s *Service) DismissAlert(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAlert(ctx, id)
}

// RunAlertScan regenerates unread alerts from the current distribution.
// Acknowledged alerts survive the sweep.
func (s *Service) RunAlertScan(ctx context.Context) ([]Alert, error) {
	categories, err := s.CategoriesByUnit(ctx, units.AggregateID)
	if err != nil {
		return nil, err
	}
	alerts := ScanCategories(categories)
	if err := s.repo.DeleteUnreadAlerts(ctx); err != nil {
		return nil, err
	}
	for _, a := range alerts {
		if err := s.repo.InsertAlert(ctx, a); err != nil {
			return nil, err
		}
	}
	return alerts, nil
}

func (s *Service) checkBreakdown(breakdown []UnitAmount) error {
	for _, ua := range breakdown {
		if !s.registry.Known(ua.UnitID) || s.registry.IsAggregate(ua.UnitID) {
			return fmt.Errorf("%w: breakdown unit %q", httpx.ErrValidation, ua.UnitID)
		}
		if ua.Amount < 0 {
			return fmt.Errorf("%w: breakdown amount must not be negative", httpx.ErrValidation)
		}
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Bump(ctx)
	}
}

// scopeToUnit projects stored categories onto a unit selector and
// recomputes every percentage over the selector's expense pool. Percentages
// sum to 100 only when the categories exhaust the pool; without a pool the
// categorised total stands in as the denominator.
func scopeToUnit(categories []Category, unitID string, aggregate bool, pool float64) []Category {
	var categorised float64
	out := make([]Category, len(categories))
	for i, c := range categories {
		amount := c.amountFor(unitID, aggregate)
		c.TotalAmount = amount
		c.Percentage = 0
		categorised += amount
		out[i] = c
	}
	if pool <= 0 {
		pool = categorised
	}
	if pool == 0 {
		return out
	}
	for i := range out {
		out[i].Percentage = out[i].TotalAmount / pool * 100
	}
	return out
}
