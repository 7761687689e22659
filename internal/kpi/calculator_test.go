package kpi

import (
	"context"
	"math"
	"testing"

	"github.com/colegia/colegia/internal/finance"
	"github.com/colegia/colegia/internal/units"
)

// stubSource serves a fixed series for every unit.
type stubSource struct {
	series   []finance.MonthlyRecord
	students int
	delinq   []float64
}

func (s *stubSource) BaseSeries(string) []finance.MonthlyRecord { return s.series }
func (s *stubSource) Students(string) int                       { return s.students }
func (s *stubSource) DelinquencySeries(string) []float64        { return s.delinq }
func (s *stubSource) Occupancy(string) float64                  { return 80 }
func (s *stubSource) Satisfaction(string) float64               { return 90 }

func newMockCalculator() *Calculator {
	agg := finance.NewAggregator(units.NewRegistry(), finance.NewMockDataSource(7), nil)
	return NewCalculator(agg, nil)
}

func findKPI(t *testing.T, kpis []KPI, title string) KPI {
	t.Helper()
	for _, k := range kpis {
		if k.Title == title {
			return k
		}
	}
	t.Fatalf("kpi %q not found", title)
	return KPI{}
}

func TestCampoGrandeMargin(t *testing.T) {
	calc := newMockCalculator()
	kpis, err := calc.PrimaryKPIs(context.Background(), "campo-grande")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	margin := findKPI(t, kpis, MetricMargin)
	want := (98500.0 - 76800.0) / 98500.0 * 100
	if math.Abs(margin.RawValue-want) > 0.01 {
		t.Fatalf("margin: got %.4f want %.4f", margin.RawValue, want)
	}
	if math.Abs(margin.RawValue-22.03) > 0.01 {
		t.Fatalf("margin should be ~22.03%%, got %.4f", margin.RawValue)
	}
	if margin.Alert != AlertSuccess {
		t.Fatalf("22%% margin should grade success, got %s", margin.Alert)
	}
}

func TestCashGenerationUsesDifferenceOfDifferences(t *testing.T) {
	calc := newMockCalculator()
	ctx := context.Background()
	kpis, err := calc.PrimaryKPIs(ctx, "campo-grande")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cash := findKPI(t, kpis, MetricCash)
	if cash.RawValue != 98500-76800 {
		t.Fatalf("cash: got %.2f want %.2f", cash.RawValue, 98500.0-76800.0)
	}
	prevDiff := 97800.0 - 76300.0
	wantChange := (cash.RawValue - prevDiff) / prevDiff * 100
	if math.Abs(cash.Change-wantChange) > 0.0001 {
		t.Fatalf("cash change: got %.4f want %.4f", cash.Change, wantChange)
	}
}

func TestSecondaryKPIsUseRosterAndFallback(t *testing.T) {
	calc := newMockCalculator()
	ctx := context.Background()
	kpis, err := calc.SecondaryKPIs(ctx, "campo-grande")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ticket := findKPI(t, kpis, MetricTicket)
	if math.Abs(ticket.RawValue-98500.0/420.0) > 0.0001 {
		t.Fatalf("ticket: got %.4f want %.4f", ticket.RawValue, 98500.0/420.0)
	}

	// A unit without roster data falls back to the 400-student constant.
	src := &stubSource{series: []finance.MonthlyRecord{
		{Period: "2025-11", Revenue: 80000, Expense: 60000},
		{Period: "2025-12", Revenue: 82000, Expense: 61000},
	}}
	agg := finance.NewAggregator(units.NewRegistry(), src, nil)
	fallbackCalc := NewCalculator(agg, nil)
	kpis, err = fallbackCalc.SecondaryKPIs(ctx, "campo-grande")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ticket = findKPI(t, kpis, MetricTicket)
	if math.Abs(ticket.RawValue-82000.0/400.0) > 0.0001 {
		t.Fatalf("fallback ticket: got %.4f want %.4f", ticket.RawValue, 82000.0/400.0)
	}
}

func TestZeroPreviousMonthNeverYieldsInfOrNaN(t *testing.T) {
	src := &stubSource{series: []finance.MonthlyRecord{
		{Period: "2025-11", Revenue: 0, Expense: 0},
		{Period: "2025-12", Revenue: 50000, Expense: 30000},
	}, students: 100}
	agg := finance.NewAggregator(units.NewRegistry(), src, nil)
	calc := NewCalculator(agg, nil)

	kpis, err := calc.PrimaryKPIs(context.Background(), "recreio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, k := range kpis {
		if math.IsInf(k.Change, 0) || math.IsNaN(k.Change) {
			t.Fatalf("kpi %s change is %v", k.Title, k.Change)
		}
		if math.IsInf(k.RawValue, 0) || math.IsNaN(k.RawValue) {
			t.Fatalf("kpi %s raw value is %v", k.Title, k.RawValue)
		}
	}
	revenue := findKPI(t, kpis, MetricRevenue)
	if !revenue.ChangeUndefined || revenue.Change != 0 {
		t.Fatalf("revenue change over zero base should be flagged undefined, got %+v", revenue)
	}
}

func TestZeroRevenueMarginIsFlaggedNotNaN(t *testing.T) {
	src := &stubSource{series: []finance.MonthlyRecord{
		{Period: "2025-12", Revenue: 0, Expense: 10000},
	}, students: 50}
	agg := finance.NewAggregator(units.NewRegistry(), src, nil)
	calc := NewCalculator(agg, nil)

	kpis, err := calc.PrimaryKPIs(context.Background(), "barra")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	margin := findKPI(t, kpis, MetricMargin)
	if math.IsNaN(margin.RawValue) || math.IsInf(margin.RawValue, 0) {
		t.Fatalf("margin should degrade to zero, got %v", margin.RawValue)
	}
	if !margin.ChangeUndefined {
		t.Fatalf("margin change should be flagged undefined")
	}
}

func TestCalculatorIsIdempotent(t *testing.T) {
	calc := newMockCalculator()
	ctx := context.Background()
	first, err := calc.SecondaryKPIs(ctx, units.AggregateID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := calc.SecondaryKPIs(ctx, units.AggregateID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("kpi %s differs between identical calls", first[i].Title)
		}
	}
}

func TestHistoricalSeriesCoversEveryMetric(t *testing.T) {
	calc := newMockCalculator()
	ctx := context.Background()
	metrics := []string{
		MetricRevenue, MetricExpense, MetricCash, MetricMargin,
		MetricTicket, MetricCostStudent, MetricStudents, MetricDelinquency,
	}
	for _, metric := range metrics {
		points, err := calc.HistoricalSeries(ctx, metric, "campo-grande")
		if err != nil {
			t.Fatalf("%s: %v", metric, err)
		}
		if len(points) != 12 {
			t.Fatalf("%s: expected 12 points got %d", metric, len(points))
		}
	}
	if _, err := calc.HistoricalSeries(ctx, "LTV/CAC", "campo-grande"); err == nil {
		t.Fatalf("expected error for unknown metric")
	}
}

func TestDelinquencyAlertTiers(t *testing.T) {
	cases := []struct {
		rate float64
		want Alert
	}{
		{2.9, AlertSuccess},
		{3.0, AlertSuccess},
		{4.2, AlertWarning},
		{5.0, AlertWarning},
		{6.1, AlertDanger},
	}
	for _, tc := range cases {
		if got := delinquencyAlert(tc.rate); got != tc.want {
			t.Fatalf("rate %.1f: got %s want %s", tc.rate, got, tc.want)
		}
	}
}
