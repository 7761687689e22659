package dre

import (
	"context"
	"fmt"

	"github.com/colegia/colegia/internal/finance"
	"github.com/colegia/colegia/internal/platform/httpx"
	"github.com/colegia/colegia/internal/shared"
	"github.com/colegia/colegia/internal/units"
)

// Revenues holds the revenue side of a statement.
type Revenues struct {
	Total        float64 `json:"total"`
	Mensalidades float64 `json:"mensalidades"`
	Matriculas   float64 `json:"matriculas"`
	Outras       float64 `json:"outras"`
}

// Expenses holds the expense side of a statement.
type Expenses struct {
	Total       float64 `json:"total"`
	Pessoal     float64 `json:"pessoal"`
	Aluguel     float64 `json:"aluguel"`
	Marketing   float64 `json:"marketing"`
	Operacional float64 `json:"operacional"`
	Outros      float64 `json:"outros"`
}

// Document is a complete income statement for a unit set and period.
type Document struct {
	Units        []string `json:"units"`
	Period       string   `json:"period,omitempty"`
	Receitas     Revenues `json:"receitas"`
	Despesas     Expenses `json:"despesas"`
	LucroLiquido float64  `json:"lucroLiquido"`
}

// LineType distinguishes detail rows from computed rows.
type LineType string

const (
	LineNormal   LineType = "normal"
	LineSubtotal LineType = "subtotal"
	LineTotal    LineType = "total"
)

// LineItem is one indented row of the rendered statement.
type LineItem struct {
	Code             string   `json:"code"`
	Name             string   `json:"name"`
	Level            int      `json:"level"`
	Type             LineType `json:"type"`
	Value            float64  `json:"value"`
	PercentOfRevenue float64  `json:"percentageOfRevenue"`
}

// Builder turns aggregated totals into statements.
type Builder struct {
	agg    *finance.Aggregator
	schema AllocationSchema
}

// NewBuilder wires the builder with its default allocation schema.
func NewBuilder(agg *finance.Aggregator, schema AllocationSchema) (*Builder, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &Builder{agg: agg, schema: schema}, nil
}

// Build assembles the statement for the requested units and period. Multiple
// units consolidate by summing each unit's own document field by field, which
// preserves per-unit rounding in the buckets.
func (b *Builder) Build(ctx context.Context, unitIDs []string, period shared.Period) (Document, error) {
	return b.BuildWithSchema(ctx, unitIDs, period, b.schema)
}

// BuildWithSchema is Build with a caller-supplied allocation schema.
func (b *Builder) BuildWithSchema(ctx context.Context, unitIDs []string, period shared.Period, schema AllocationSchema) (Document, error) {
	if err := schema.Validate(); err != nil {
		return Document{}, err
	}
	unitIDs, err := normalizeUnits(unitIDs)
	if err != nil {
		return Document{}, err
	}

	doc := Document{Units: append([]string(nil), unitIDs...), Period: period.Code()}
	for _, unitID := range unitIDs {
		series, err := b.agg.MonthlySeries(ctx, unitID, period)
		if err != nil {
			return Document{}, err
		}
		part := fromTotals(finance.SumSeries(series), schema)
		doc.Receitas.Total += part.Receitas.Total
		doc.Receitas.Mensalidades += part.Receitas.Mensalidades
		doc.Receitas.Matriculas += part.Receitas.Matriculas
		doc.Receitas.Outras += part.Receitas.Outras
		doc.Despesas.Total += part.Despesas.Total
		doc.Despesas.Pessoal += part.Despesas.Pessoal
		doc.Despesas.Aluguel += part.Despesas.Aluguel
		doc.Despesas.Marketing += part.Despesas.Marketing
		doc.Despesas.Operacional += part.Despesas.Operacional
		doc.Despesas.Outros += part.Despesas.Outros
	}
	doc.LucroLiquido = doc.Receitas.Total - doc.Despesas.Total
	if doc.Receitas.Total == 0 && doc.Despesas.Total == 0 {
		return Document{}, fmt.Errorf("%w: no movements for units %v", shared.ErrInsufficientData, unitIDs)
	}
	return doc, nil
}

// normalizeUnits drops duplicate selectors and rejects the aggregate mixed
// with concrete units, which would count those branches twice.
func normalizeUnits(unitIDs []string) ([]string, error) {
	if len(unitIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one unit required", httpx.ErrValidation)
	}
	seen := make(map[string]struct{}, len(unitIDs))
	out := make([]string, 0, len(unitIDs))
	for _, id := range unitIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if _, ok := seen[units.AggregateID]; ok && len(out) > 1 {
		return nil, fmt.Errorf("%w: %q cannot be combined with concrete units", httpx.ErrValidation, units.AggregateID)
	}
	return out, nil
}

// fromTotals splits one unit's totals through the allocation schema.
func fromTotals(totals finance.Totals, schema AllocationSchema) Document {
	doc := Document{
		Receitas: Revenues{
			Total:        totals.Revenue,
			Mensalidades: totals.Revenue * schema.Revenue.Mensalidades,
			Matriculas:   totals.Revenue * schema.Revenue.Matriculas,
			Outras:       totals.Revenue * schema.Revenue.Outras,
		},
		Despesas: Expenses{
			Total:       totals.Expense,
			Pessoal:     totals.Expense * schema.Expense.Pessoal,
			Aluguel:     totals.Expense * schema.Expense.Aluguel,
			Marketing:   totals.Expense * schema.Expense.Marketing,
			Operacional: totals.Expense * schema.Expense.Operacional,
			Outros:      totals.Expense * schema.Expense.Outros,
		},
	}
	doc.LucroLiquido = doc.Receitas.Total - doc.Despesas.Total
	return doc
}

// Lines flattens the document into the ordered rows the preview renders.
func (d Document) Lines() []LineItem {
	pct := func(v float64) float64 {
		if d.Receitas.Total == 0 {
			return 0
		}
		return v / d.Receitas.Total * 100
	}
	return []LineItem{
		{Code: "3", Name: "Receita Operacional Bruta", Level: 0, Type: LineSubtotal, Value: d.Receitas.Total, PercentOfRevenue: pct(d.Receitas.Total)},
		{Code: "3.1", Name: "Mensalidades", Level: 1, Type: LineNormal, Value: d.Receitas.Mensalidades, PercentOfRevenue: pct(d.Receitas.Mensalidades)},
		{Code: "3.2", Name: "Matrículas", Level: 1, Type: LineNormal, Value: d.Receitas.Matriculas, PercentOfRevenue: pct(d.Receitas.Matriculas)},
		{Code: "3.3", Name: "Outras Receitas", Level: 1, Type: LineNormal, Value: d.Receitas.Outras, PercentOfRevenue: pct(d.Receitas.Outras)},
		{Code: "4", Name: "Despesas Operacionais", Level: 0, Type: LineSubtotal, Value: d.Despesas.Total, PercentOfRevenue: pct(d.Despesas.Total)},
		{Code: "4.1", Name: "Pessoal", Level: 1, Type: LineNormal, Value: d.Despesas.Pessoal, PercentOfRevenue: pct(d.Despesas.Pessoal)},
		{Code: "4.2", Name: "Aluguel", Level: 1, Type: LineNormal, Value: d.Despesas.Aluguel, PercentOfRevenue: pct(d.Despesas.Aluguel)},
		{Code: "4.3", Name: "Marketing", Level: 1, Type: LineNormal, Value: d.Despesas.Marketing, PercentOfRevenue: pct(d.Despesas.Marketing)},
		{Code: "4.4", Name: "Operacional", Level: 1, Type: LineNormal, Value: d.Despesas.Operacional, PercentOfRevenue: pct(d.Despesas.Operacional)},
		{Code: "4.5", Name: "Outros", Level: 1, Type: LineNormal, Value: d.Despesas.Outros, PercentOfRevenue: pct(d.Despesas.Outros)},
		{Code: "5", Name: "Resultado Líquido", Level: 0, Type: LineTotal, Value: d.LucroLiquido, PercentOfRevenue: pct(d.LucroLiquido)},
	}
}
