// Package kpi derives the named dashboard indicators from monthly series.
package kpi

import (
	"context"
	"errors"
	"fmt"

	"github.com/colegia/colegia/internal/finance"
	"github.com/colegia/colegia/internal/shared"
)

// ErrUnknownMetric rejects history lookups for titles outside the card set.
var ErrUnknownMetric = errors.New("unknown metric")

// Alert classifies a KPI against its metric-specific thresholds.
type Alert string

const (
	AlertSuccess Alert = "success"
	AlertWarning Alert = "warning"
	AlertDanger  Alert = "danger"
)

// Indicator titles double as the stable metric identifiers used by goals
// and historical series lookups.
const (
	MetricRevenue     = "Faturamento"
	MetricExpense     = "Despesas"
	MetricCash        = "Geração de Caixa"
	MetricMargin      = "Margem Líquida"
	MetricTicket      = "Ticket Médio"
	MetricCostStudent = "Custo por Aluno"
	MetricStudents    = "Alunos Ativos"
	MetricDelinquency = "Inadimplência"
)

// fallbackStudents stands in when a unit carries no roster figure. It keeps
// per-student ratios defined on incomplete data, it is not a business rule.
const fallbackStudents = 400

// KPI is one derived indicator ready for display.
type KPI struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Value           string  `json:"value"`
	RawValue        float64 `json:"rawValue"`
	Change          float64 `json:"change"`
	ChangeUndefined bool    `json:"changeUndefined,omitempty"`
	Target          float64 `json:"target,omitempty"`
	Icon            string  `json:"icon"`
	Alert           Alert   `json:"alert"`
}

// HistoryPoint is one month of a KPI's historical series.
type HistoryPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// TargetSource resolves the user-set target for a metric, when one exists.
type TargetSource interface {
	Target(ctx context.Context, metric string) (float64, bool)
}

// Calculator derives primary and secondary KPIs. It is a pure function of
// the aggregator's series plus the data source's operational figures.
type Calculator struct {
	agg     *finance.Aggregator
	targets TargetSource
}

// NewCalculator wires the calculator. targets may be nil.
func NewCalculator(agg *finance.Aggregator, targets TargetSource) *Calculator {
	return &Calculator{agg: agg, targets: targets}
}

// PrimaryKPIs returns the headline cards: revenue, expense, cash
// generation and net margin for the latest month.
func (c *Calculator) PrimaryKPIs(ctx context.Context, unitID string) ([]KPI, error) {
	cur, prev, err := c.latestPair(ctx, unitID)
	if err != nil {
		return nil, err
	}

	revenue := c.build(ctx, "revenue", MetricRevenue, "trending-up", cur.Revenue, prev.Revenue, shared.FormatBRL)
	revenue.Alert = changeAlert(revenue.Change, revenue.ChangeUndefined)

	expense := c.build(ctx, "expense", MetricExpense, "trending-down", cur.Expense, prev.Expense, shared.FormatBRL)
	expense.Alert = expenseAlert(expense.Change, expense.ChangeUndefined)

	cash := c.build(ctx, "cash", MetricCash, "wallet", cur.Revenue-cur.Expense, prev.Revenue-prev.Expense, shared.FormatBRL)
	cash.Alert = cashAlert(cash.RawValue)

	margin := c.build(ctx, "margin", MetricMargin, "percent", marginOf(cur), marginOf(prev), shared.FormatPercent)
	if cur.Revenue == 0 {
		margin.ChangeUndefined = true
		margin.Change = 0
	}
	margin.Alert = marginAlert(margin.RawValue)

	return []KPI{revenue, expense, cash, margin}, nil
}

// SecondaryKPIs returns the operational cards: average ticket, cost per
// student, active students and delinquency.
func (c *Calculator) SecondaryKPIs(ctx context.Context, unitID string) ([]KPI, error) {
	cur, prev, err := c.latestPair(ctx, unitID)
	if err != nil {
		return nil, err
	}
	curStudents := studentsOr(cur.Students)
	prevStudents := studentsOr(prev.Students)

	ticket := c.build(ctx, "ticket", MetricTicket, "receipt", cur.Revenue/float64(curStudents), prev.Revenue/float64(prevStudents), shared.FormatBRL)
	ticket.Alert = targetAlert(ticket.RawValue, ticket.Target, false)

	cost := c.build(ctx, "cost-student", MetricCostStudent, "graduation-cap", cur.Expense/float64(curStudents), prev.Expense/float64(prevStudents), shared.FormatBRL)
	cost.Alert = targetAlert(cost.RawValue, cost.Target, true)

	students := c.build(ctx, "students", MetricStudents, "users", float64(curStudents), float64(prevStudents), shared.FormatNumber)
	students.Alert = changeAlert(students.Change, students.ChangeUndefined)

	curRate, prevRate := c.delinquencyPair(unitID)
	delinquency := c.build(ctx, "delinquency", MetricDelinquency, "alert-triangle", curRate, prevRate, shared.FormatPercent)
	delinquency.Alert = delinquencyAlert(delinquency.RawValue)

	return []KPI{ticket, cost, students, delinquency}, nil
}

// CurrentValues returns the latest raw value per metric title, for callers
// that pair metrics with targets rather than rendering cards.
func (c *Calculator) CurrentValues(ctx context.Context, unitID string) (map[string]float64, error) {
	primary, err := c.PrimaryKPIs(ctx, unitID)
	if err != nil {
		return nil, err
	}
	secondary, err := c.SecondaryKPIs(ctx, unitID)
	if err != nil {
		return nil, err
	}
	values := make(map[string]float64, len(primary)+len(secondary))
	for _, k := range primary {
		values[k.Title] = k.RawValue
	}
	for _, k := range secondary {
		values[k.Title] = k.RawValue
	}
	return values, nil
}

// HistoricalSeries resolves the per-month values behind one KPI card.
func (c *Calculator) HistoricalSeries(ctx context.Context, metric, unitID string) ([]HistoryPoint, error) {
	series, err := c.agg.MonthlySeries(ctx, unitID, shared.Period{})
	if err != nil {
		return nil, err
	}
	points := make([]HistoryPoint, 0, len(series))
	switch metric {
	case MetricRevenue:
		for _, rec := range series {
			points = append(points, HistoryPoint{Period: rec.Period, Value: rec.Revenue})
		}
	case MetricExpense:
		for _, rec := range series {
			points = append(points, HistoryPoint{Period: rec.Period, Value: rec.Expense})
		}
	case MetricCash:
		for _, rec := range series {
			points = append(points, HistoryPoint{Period: rec.Period, Value: rec.Revenue - rec.Expense})
		}
	case MetricMargin:
		for _, rec := range series {
			points = append(points, HistoryPoint{Period: rec.Period, Value: marginOf(rec)})
		}
	case MetricTicket:
		for _, rec := range series {
			points = append(points, HistoryPoint{Period: rec.Period, Value: rec.Revenue / float64(studentsOr(rec.Students))})
		}
	case MetricCostStudent:
		for _, rec := range series {
			points = append(points, HistoryPoint{Period: rec.Period, Value: rec.Expense / float64(studentsOr(rec.Students))})
		}
	case MetricStudents:
		for _, rec := range series {
			points = append(points, HistoryPoint{Period: rec.Period, Value: float64(studentsOr(rec.Students))})
		}
	case MetricDelinquency:
		rates := c.delinquencySeries(unitID)
		for i, rec := range series {
			if i >= len(rates) {
				break
			}
			points = append(points, HistoryPoint{Period: rec.Period, Value: rates[i]})
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	return points, nil
}

func (c *Calculator) build(ctx context.Context, id, title, icon string, cur, prev float64, format func(float64) string) KPI {
	change, undefined := pctChange(cur, prev)
	k := KPI{
		ID:              id,
		Title:           title,
		Value:           format(cur),
		RawValue:        cur,
		Change:          change,
		ChangeUndefined: undefined,
		Icon:            icon,
	}
	if c.targets != nil {
		if target, ok := c.targets.Target(ctx, title); ok {
			k.Target = target
		}
	}
	return k
}

func (c *Calculator) latestPair(ctx context.Context, unitID string) (cur, prev finance.MonthlyRecord, err error) {
	series, err := c.agg.MonthlySeries(ctx, unitID, shared.Period{})
	if err != nil {
		return finance.MonthlyRecord{}, finance.MonthlyRecord{}, err
	}
	cur = series[len(series)-1]
	if len(series) > 1 {
		prev = series[len(series)-2]
	}
	return cur, prev, nil
}

// delinquencyPair averages the concrete units' rates weighted by roster
// size for the aggregate selector.
func (c *Calculator) delinquencyPair(unitID string) (cur, prev float64) {
	rates := c.delinquencySeries(unitID)
	if len(rates) == 0 {
		return 0, 0
	}
	cur = rates[len(rates)-1]
	prev = cur
	if len(rates) > 1 {
		prev = rates[len(rates)-2]
	}
	return cur, prev
}

func (c *Calculator) delinquencySeries(unitID string) []float64 {
	src := c.agg.Source()
	if !c.agg.Registry().IsAggregate(unitID) {
		return src.DelinquencySeries(unitID)
	}
	var combined []float64
	var totalWeight float64
	for _, u := range c.agg.Registry().Concrete() {
		rates := src.DelinquencySeries(u.ID)
		weight := float64(studentsOr(src.Students(u.ID)))
		totalWeight += weight
		for i, rate := range rates {
			if i == len(combined) {
				combined = append(combined, 0)
			}
			combined[i] += rate * weight
		}
	}
	if totalWeight == 0 {
		return nil
	}
	for i := range combined {
		combined[i] /= totalWeight
	}
	return combined
}

// pctChange computes period-over-period percent change. A zero previous
// value yields a flagged zero instead of Inf or NaN.
func pctChange(cur, prev float64) (float64, bool) {
	if prev == 0 {
		return 0, true
	}
	return (cur - prev) / prev * 100, false
}

func marginOf(rec finance.MonthlyRecord) float64 {
	if rec.Revenue == 0 {
		return 0
	}
	return (rec.Revenue - rec.Expense) / rec.Revenue * 100
}

func studentsOr(n int) int {
	if n <= 0 {
		return fallbackStudents
	}
	return n
}
