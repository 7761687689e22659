package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/colegia/colegia/internal/shared"
	"github.com/colegia/colegia/internal/units"
)

// Aggregator resolves unit selectors into monthly revenue/expense series.
// All derivation is pure; the optional cache only fronts repeated reads.
type Aggregator struct {
	registry *units.Registry
	source   DataSource
	cache    *Cache
}

// NewAggregator wires the registry and data source with an optional cache.
func NewAggregator(registry *units.Registry, source DataSource, cache *Cache) *Aggregator {
	return &Aggregator{registry: registry, source: source, cache: cache}
}

// Source exposes the underlying data source for sibling calculators.
func (a *Aggregator) Source() DataSource {
	return a.source
}

// Registry exposes the unit registry for sibling calculators.
func (a *Aggregator) Registry() *units.Registry {
	return a.registry
}

// MonthlySeries returns the chronological series for a unit selector with
// the requested period view applied. The zero Period returns the full
// series. Unknown units surface shared.ErrUnknownUnit; a known unit with no
// records yields a single zero-filled month so downstream ratio math never
// divides by an absent record.
func (a *Aggregator) MonthlySeries(ctx context.Context, unitID string, period shared.Period) ([]MonthlyRecord, error) {
	if !a.registry.Known(unitID) {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownUnit, unitID)
	}

	loader := func(ctx context.Context) (interface{}, error) {
		return a.compute(unitID, period), nil
	}

	if a.cache == nil {
		value, _ := loader(ctx)
		return value.([]MonthlyRecord), nil
	}

	key, err := a.cache.BuildKey(ctx, keySeries(unitID, string(period.View), period.Code()))
	if err != nil {
		return nil, err
	}
	var series []MonthlyRecord
	if err := a.cache.FetchJSON(ctx, key, &series, loader); err != nil {
		return nil, err
	}
	return series, nil
}

func (a *Aggregator) compute(unitID string, period shared.Period) []MonthlyRecord {
	series := a.baseSeries(unitID)
	if len(series) == 0 {
		code := period.Code()
		if code == "" {
			code = time.Now().Format("2006-01")
		}
		return []MonthlyRecord{{Period: code}}
	}
	return applyView(series, period)
}

// baseSeries sums every concrete unit element-wise for the aggregate
// selector and passes concrete units straight through.
func (a *Aggregator) baseSeries(unitID string) []MonthlyRecord {
	if !a.registry.IsAggregate(unitID) {
		return a.source.BaseSeries(unitID)
	}
	var combined []MonthlyRecord
	for _, u := range a.registry.Concrete() {
		series := a.source.BaseSeries(u.ID)
		for i, rec := range series {
			if i == len(combined) {
				combined = append(combined, MonthlyRecord{Period: rec.Period})
			}
			combined[i].Revenue += rec.Revenue
			combined[i].Expense += rec.Expense
			combined[i].Students += rec.Students
		}
	}
	return combined
}

// applyView projects the requested period window onto the series. Requests
// beyond the available range clamp to the closest month rather than
// returning an empty series.
func applyView(series []MonthlyRecord, period shared.Period) []MonthlyRecord {
	if period.IsZero() && period.View == "" {
		return series
	}
	anchor := anchorIndex(series, period)
	switch period.View {
	case shared.ViewPrevious:
		if period.IsZero() {
			if anchor > 0 {
				anchor--
			}
		} else {
			anchor = anchorIndex(series, period.Previous())
		}
		return series[anchor : anchor+1]
	case shared.ViewYTD:
		start := anchor
		year := series[anchor].Period[:4]
		for start > 0 && series[start-1].Period[:4] == year {
			start--
		}
		return series[start : anchor+1]
	default:
		return series[anchor : anchor+1]
	}
}

// anchorIndex locates the requested month, clamping to the series bounds.
// YYYY-MM codes order lexicographically, so string comparison suffices.
func anchorIndex(series []MonthlyRecord, period shared.Period) int {
	if period.IsZero() {
		return len(series) - 1
	}
	code := period.Code()
	for i, rec := range series {
		if rec.Period == code {
			return i
		}
		if rec.Period > code {
			return i
		}
	}
	return len(series) - 1
}
