// Package performance ranks the chain's branches by their latest results.
package performance

import (
	"context"
	"sort"

	"github.com/colegia/colegia/internal/finance"
	"github.com/colegia/colegia/internal/shared"
)

// Row is one branch's scorecard for the latest month.
type Row struct {
	UnitID        string  `json:"unitId"`
	UnitName      string  `json:"unitName"`
	Revenue       float64 `json:"revenue"`
	Expense       float64 `json:"expense"`
	Profit        float64 `json:"profit"`
	Margin        float64 `json:"margin"`
	Students      int     `json:"students"`
	Occupancy     float64 `json:"occupancy"`
	AverageTicket float64 `json:"averageTicket"`
	Satisfaction  float64 `json:"satisfaction"`
}

// Service assembles the branch ranking.
type Service struct {
	agg *finance.Aggregator
}

// NewService wires the ranking service.
func NewService(agg *finance.Aggregator) *Service {
	return &Service{agg: agg}
}

// Ranking returns every branch's scorecard sorted by revenue, best first.
func (s *Service) Ranking(ctx context.Context) ([]Row, error) {
	src := s.agg.Source()
	registry := s.agg.Registry()

	rows := make([]Row, 0, len(registry.Concrete()))
	for _, u := range registry.Concrete() {
		series, err := s.agg.MonthlySeries(ctx, u.ID, shared.Period{View: shared.ViewCurrent})
		if err != nil {
			return nil, err
		}
		latest := series[len(series)-1]
		row := Row{
			UnitID:       u.ID,
			UnitName:     u.DisplayName,
			Revenue:      latest.Revenue,
			Expense:      latest.Expense,
			Profit:       latest.Revenue - latest.Expense,
			Students:     latest.Students,
			Occupancy:    src.Occupancy(u.ID),
			Satisfaction: src.Satisfaction(u.ID),
		}
		if latest.Revenue > 0 {
			row.Margin = row.Profit / latest.Revenue * 100
		}
		if latest.Students > 0 {
			row.AverageTicket = latest.Revenue / float64(latest.Students)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Revenue > rows[j].Revenue })
	return rows, nil
}
