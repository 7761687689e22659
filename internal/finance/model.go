// Package finance aggregates per-unit monthly financial records for the dashboard.
package finance

// MonthlyRecord is one month of a unit's financial movement.
// Ordering inside a series is chronological; the last element is the
// current month.
type MonthlyRecord struct {
	Period   string  `json:"period"`
	Revenue  float64 `json:"revenue"`
	Expense  float64 `json:"expense"`
	Students int     `json:"students,omitempty"`
}

// Totals sums revenue and expense over a series.
type Totals struct {
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expense"`
}

// SumSeries folds a series into its revenue/expense totals.
func SumSeries(series []MonthlyRecord) Totals {
	var t Totals
	for _, rec := range series {
		t.Revenue += rec.Revenue
		t.Expense += rec.Expense
	}
	return t
}
