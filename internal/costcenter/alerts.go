package costcenter

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Alerting thresholds, in percent of the expense pool.
const (
	// topConcentrationThreshold flags when the three largest categories
	// absorb most of the spend.
	topConcentrationThreshold = 80.0
	// singleCategoryThreshold flags one category dominating the pool.
	singleCategoryThreshold = 40.0
)

// ScanCategories runs the alerting pass over a scoped category list.
// Input percentages must already be computed over the expense pool
// (see scopeToUnit).
func ScanCategories(categories []Category) []Alert {
	now := time.Now()
	var alerts []Alert

	sorted := make([]Category, len(categories))
	copy(sorted, categories)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Percentage > sorted[j].Percentage })

	var topShare float64
	for i, c := range sorted {
		if i >= 3 {
			break
		}
		topShare += c.Percentage
	}
	if len(sorted) > 3 && topShare > topConcentrationThreshold {
		alerts = append(alerts, Alert{
			ID:           uuid.New(),
			Type:         AlertCritical,
			Title:        "Alta concentração de custos",
			Message:      fmt.Sprintf("As 3 maiores categorias somam %.1f%% das despesas", topShare),
			Threshold:    topConcentrationThreshold,
			CurrentValue: topShare,
			CreatedAt:    now,
		})
	}

	for _, c := range sorted {
		if c.Percentage <= singleCategoryThreshold {
			break
		}
		alerts = append(alerts, Alert{
			ID:           uuid.New(),
			Type:         AlertWarning,
			Title:        fmt.Sprintf("Categoria %s acima do esperado", c.Name),
			Message:      fmt.Sprintf("%s representa %.1f%% das despesas", c.Name, c.Percentage),
			Threshold:    singleCategoryThreshold,
			CurrentValue: c.Percentage,
			CreatedAt:    now,
		})
	}

	for _, c := range categories {
		if c.IsActive && len(c.Accounts) == 0 {
			alerts = append(alerts, Alert{
				ID:        uuid.New(),
				Type:      AlertInfo,
				Title:     fmt.Sprintf("Categoria %s sem contas vinculadas", c.Name),
				Message:   "Vincule contas do razão para que os valores sejam apurados",
				CreatedAt: now,
			})
		}
	}
	return alerts
}
