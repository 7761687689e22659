// Package costcenter groups ledger accounts into user-defined expense
// categories and derives their share of the expense pool.
package costcenter

import (
	"time"

	"github.com/google/uuid"
)

// UnitAmount is one branch's slice of a category's spend.
type UnitAmount struct {
	UnitID string  `json:"unitId"`
	Amount float64 `json:"amount"`
}

// Category is a user-defined grouping of ledger accounts. TotalAmount and
// Percentage are derived on every read: they are never trusted from
// storage, so edits and deletions renormalise automatically.
type Category struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Color         string       `json:"color"`
	Icon          string       `json:"icon"`
	IsActive      bool         `json:"isActive"`
	Accounts      []string     `json:"accounts"`
	TotalAmount   float64      `json:"totalAmount"`
	Percentage    float64      `json:"percentage"`
	UnitBreakdown []UnitAmount `json:"unitBreakdown"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// amountFor resolves the category's spend for a unit selector; the
// aggregate selector sums the whole breakdown.
func (c Category) amountFor(unitID string, aggregate bool) float64 {
	var total float64
	for _, ua := range c.UnitBreakdown {
		if aggregate || ua.UnitID == unitID {
			total += ua.Amount
		}
	}
	return total
}

// AlertType ranks alert severity.
type AlertType string

const (
	AlertInfo     AlertType = "info"
	AlertWarning  AlertType = "warning"
	AlertCritical AlertType = "critical"
)

// Alert flags a category distribution worth the controller's attention.
// Read state is presentation state: it never feeds back into the numbers.
type Alert struct {
	ID           uuid.UUID `json:"id"`
	Type         AlertType `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Threshold    float64   `json:"threshold,omitempty"`
	CurrentValue float64   `json:"currentValue,omitempty"`
	IsRead       bool      `json:"isRead"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CategorySummary names a category alongside its derived share.
type CategorySummary struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Metrics is the overview card for the cost-center page.
type Metrics struct {
	TotalExpenses      float64         `json:"totalExpenses"`
	CategoryCount      int             `json:"categoryCount"`
	AveragePerCategory float64         `json:"averagePerCategory"`
	HighestCategory    CategorySummary `json:"highestCategory"`
	LowestCategory     CategorySummary `json:"lowestCategory"`
	MonthlyGrowth      float64         `json:"monthlyGrowth"`
}
