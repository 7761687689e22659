package costcenter

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colegia/colegia/internal/finance"
	"github.com/colegia/colegia/internal/platform/httpx"
	"github.com/colegia/colegia/internal/shared"
	"github.com/colegia/colegia/internal/units"
)

type memRepository struct {
	categories map[uuid.UUID]Category
	alerts     map[uuid.UUID]Alert
}

func newMemRepository() *memRepository {
	return &memRepository{
		categories: make(map[uuid.UUID]Category),
		alerts:     make(map[uuid.UUID]Alert),
	}
}

func (r *memRepository) ListCategories(ctx context.Context) ([]Category, error) {
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *memRepository) GetCategory(ctx context.Context, id uuid.UUID) (Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return Category{}, fmt.Errorf("%w: category %s", httpx.ErrNotFound, id)
	}
	return c, nil
}

func (r *memRepository) InsertCategory(ctx context.Context, c Category) (Category, error) {
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return Category{}, fmt.Errorf("%w: category %q", httpx.ErrDuplicate, c.Name)
		}
	}
	r.categories[c.ID] = c
	return c, nil
}

func (r *memRepository) UpdateCategory(ctx context.Context, c Category) error {
	if _, ok := r.categories[c.ID]; !ok {
		return fmt.Errorf("%w: category %s", httpx.ErrNotFound, c.ID)
	}
	r.categories[c.ID] = c
	return nil
}

func (r *memRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.categories[id]; !ok {
		return fmt.Errorf("%w: category %s", httpx.ErrNotFound, id)
	}
	delete(r.categories, id)
	return nil
}

func (r *memRepository) ListAlerts(ctx context.Context) ([]Alert, error) {
	out := make([]Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		out = append(out, a)
	}
	return out, nil
}

func (r *memRepository) InsertAlert(ctx context.Context, a Alert) error {
	r.alerts[a.ID] = a
	return nil
}

func (r *memRepository) MarkAlertRead(ctx context.Context, id uuid.UUID) error {
	a, ok := r.alerts[id]
	if !ok {
		return fmt.Errorf("%w: alert %s", httpx.ErrNotFound, id)
	}
	a.IsRead = true
	r.alerts[id] = a
	return nil
}

func (r *memRepository) DeleteAlert(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.alerts[id]; !ok {
		return fmt.Errorf("%w: alert %s", httpx.ErrNotFound, id)
	}
	delete(r.alerts, id)
	return nil
}

func (r *memRepository) DeleteUnreadAlerts(ctx context.Context) error {
	for id, a := range r.alerts {
		if !a.IsRead {
			delete(r.alerts, id)
		}
	}
	return nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, units.NewRegistry(), nil, nil)
}

func seedCategory(t *testing.T, svc *Service, name string, perUnit float64) Category {
	t.Helper()
	c, err := svc.Add(context.Background(), CategoryInput{
		Name:     name,
		Accounts: []string{"4.1.01"},
		UnitBreakdown: []UnitAmount{
			{UnitID: "campo-grande", Amount: perUnit},
			{UnitID: "recreio", Amount: perUnit},
		},
	})
	require.NoError(t, err)
	return c
}

// stubLedger feeds the aggregator a fixed series per unit.
type stubLedger struct {
	series map[string][]finance.MonthlyRecord
}

func (s stubLedger) BaseSeries(unitID string) []finance.MonthlyRecord { return s.series[unitID] }
func (s stubLedger) Students(string) int                              { return 0 }
func (s stubLedger) DelinquencySeries(string) []float64               { return nil }
func (s stubLedger) Occupancy(string) float64                         { return 0 }
func (s stubLedger) Satisfaction(string) float64                      { return 0 }

func TestPercentagesOverExpensePool(t *testing.T) {
	agg := finance.NewAggregator(units.NewRegistry(), stubLedger{series: map[string][]finance.MonthlyRecord{
		"campo-grande": {{Period: "2025-12", Revenue: 150000, Expense: 100000}},
	}}, nil)
	svc := NewService(newMemRepository(), units.NewRegistry(), agg, nil)
	ctx := context.Background()

	// Pessoal 50k and Aluguel 20k over a 100k expense pool.
	_, err := svc.Add(ctx, CategoryInput{Name: "Pessoal", UnitBreakdown: []UnitAmount{{UnitID: "campo-grande", Amount: 50000}}, Accounts: []string{"4.1"}})
	require.NoError(t, err)
	_, err = svc.Add(ctx, CategoryInput{Name: "Aluguel", UnitBreakdown: []UnitAmount{{UnitID: "campo-grande", Amount: 20000}}, Accounts: []string{"4.2"}})
	require.NoError(t, err)

	categories, err := svc.CategoriesByUnit(ctx, units.AggregateID)
	require.NoError(t, err)

	byName := make(map[string]Category, len(categories))
	var coverage float64
	for _, c := range categories {
		byName[c.Name] = c
		coverage += c.Percentage
	}
	assert.InDelta(t, 50.0, byName["Pessoal"].Percentage, 1e-9)
	assert.InDelta(t, 20.0, byName["Aluguel"].Percentage, 1e-9)
	// The 30k of uncategorised spend shows up as coverage below 100%.
	assert.InDelta(t, 70.0, coverage, 1e-9)
}

func TestPercentagesFallBackToCategorisedTotal(t *testing.T) {
	svc := newTestService(newMemRepository())
	ctx := context.Background()

	seedCategory(t, svc, "Pessoal", 25000)
	seedCategory(t, svc, "Aluguel", 10000)
	seedCategory(t, svc, "Marketing", 15000)

	categories, err := svc.CategoriesByUnit(ctx, units.AggregateID)
	require.NoError(t, err)

	byName := make(map[string]Category, len(categories))
	var sum float64
	for _, c := range categories {
		byName[c.Name] = c
		sum += c.Percentage
	}
	assert.InDelta(t, 50.0, byName["Pessoal"].Percentage, 1e-9)
	assert.InDelta(t, 20.0, byName["Aluguel"].Percentage, 1e-9)
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestDeleteRenormalisesRemainingPercentages(t *testing.T) {
	svc := newTestService(newMemRepository())
	ctx := context.Background()

	seedCategory(t, svc, "Pessoal", 20000)
	seedCategory(t, svc, "Aluguel", 10000)
	seedCategory(t, svc, "Marketing", 8000)
	doomed := seedCategory(t, svc, "Eventos", 2000)

	require.NoError(t, svc.Delete(ctx, doomed.ID))

	categories, err := svc.CategoriesByUnit(ctx, units.AggregateID)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	var sum float64
	for _, c := range categories {
		sum += c.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestUnitScopedAmountsComeFromBreakdown(t *testing.T) {
	svc := newTestService(newMemRepository())
	ctx := context.Background()

	_, err := svc.Add(ctx, CategoryInput{Name: "Pessoal", Accounts: []string{"4.1"}, UnitBreakdown: []UnitAmount{
		{UnitID: "campo-grande", Amount: 30000},
		{UnitID: "recreio", Amount: 10000},
	}})
	require.NoError(t, err)

	scoped, err := svc.CategoriesByUnit(ctx, "recreio")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, 10000.0, scoped[0].TotalAmount)
	assert.InDelta(t, 100.0, scoped[0].Percentage, 1e-9)

	all, err := svc.CategoriesByUnit(ctx, units.AggregateID)
	require.NoError(t, err)
	assert.Equal(t, 40000.0, all[0].TotalAmount)
}

func TestMetricsHighestAndLowest(t *testing.T) {
	svc := newTestService(newMemRepository())
	ctx := context.Background()

	seedCategory(t, svc, "Pessoal", 25000)
	seedCategory(t, svc, "Aluguel", 9000)
	seedCategory(t, svc, "Marketing", 6000)

	metrics, err := svc.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, metrics.CategoryCount)
	assert.InDelta(t, 80000.0, metrics.TotalExpenses, 1e-9)
	assert.InDelta(t, 80000.0/3, metrics.AveragePerCategory, 1e-9)
	assert.Equal(t, "Pessoal", metrics.HighestCategory.Name)
	assert.Equal(t, "Marketing", metrics.LowestCategory.Name)
}

func TestUnknownUnitAndInvalidBreakdownRejected(t *testing.T) {
	svc := newTestService(newMemRepository())
	ctx := context.Background()

	_, err := svc.CategoriesByUnit(ctx, "tijuca")
	assert.ErrorIs(t, err, shared.ErrUnknownUnit)

	_, err = svc.Add(ctx, CategoryInput{Name: "Pessoal", UnitBreakdown: []UnitAmount{{UnitID: "tijuca", Amount: 100}}})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Add(ctx, CategoryInput{Name: "Pessoal", UnitBreakdown: []UnitAmount{{UnitID: "all", Amount: 100}}})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Add(ctx, CategoryInput{Name: "Pessoal", UnitBreakdown: []UnitAmount{{UnitID: "barra", Amount: -5}}})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDuplicateNameSurfacesConflict(t *testing.T) {
	svc := newTestService(newMemRepository())
	ctx := context.Background()

	seedCategory(t, svc, "Pessoal", 1000)
	_, err := svc.Add(ctx, CategoryInput{Name: "Pessoal", UnitBreakdown: []UnitAmount{{UnitID: "barra", Amount: 10}}})
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestAlertScanKeepsAcknowledgedAlerts(t *testing.T) {
	repo := newMemRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	// One category owns the whole pool: scan produces a warning.
	seedCategory(t, svc, "Pessoal", 50000)
	alerts, err := svc.RunAlertScan(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, alerts)

	require.NoError(t, svc.AcknowledgeAlert(ctx, alerts[0].ID))

	// Rescan: acknowledged alert survives, unread ones are regenerated.
	_, err = svc.RunAlertScan(ctx)
	require.NoError(t, err)
	stored, err := svc.Alerts(ctx)
	require.NoError(t, err)

	var readCount int
	for _, a := range stored {
		if a.IsRead {
			readCount++
		}
	}
	assert.Equal(t, 1, readCount)
}

func TestUpdatePatchesAndRecomputesOnRead(t *testing.T) {
	svc := newTestService(newMemRepository())
	ctx := context.Background()

	c := seedCategory(t, svc, "Pessoal", 10000)
	seedCategory(t, svc, "Aluguel", 10000)

	inactive := false
	updated, err := svc.Update(ctx, c.ID, CategoryInput{
		Name:          "Pessoal e Encargos",
		IsActive:      &inactive,
		Accounts:      []string{"4.1.01", "4.1.02"},
		UnitBreakdown: []UnitAmount{{UnitID: "campo-grande", Amount: 60000}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pessoal e Encargos", updated.Name)
	assert.False(t, updated.IsActive)

	categories, err := svc.CategoriesByUnit(ctx, units.AggregateID)
	require.NoError(t, err)
	byName := make(map[string]Category)
	for _, cat := range categories {
		byName[cat.Name] = cat
	}
	if got := byName["Pessoal e Encargos"].Percentage; math.Abs(got-75.0) > 1e-9 {
		t.Fatalf("expected 75%% after edit, got %.4f", got)
	}
}
