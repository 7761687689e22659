// Package units holds the canonical registry of school branches.
package units

import (
	"fmt"

	"github.com/colegia/colegia/internal/shared"
)

// AggregateID is the pseudo-unit meaning "every concrete branch combined".
// It is never a storage key of its own data.
const AggregateID = "all"

// DefaultDisplayName is returned by Resolve for ids outside the registry.
const DefaultDisplayName = "Unidade"

// Unit identifies a branch of the school chain.
type Unit struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Registry resolves unit selectors coming from the dashboard.
type Registry struct {
	aggregate Unit
	concrete  []Unit
	byID      map[string]Unit
}

// NewRegistry builds the fixed branch table.
func NewRegistry() *Registry {
	concrete := []Unit{
		{ID: "campo-grande", DisplayName: "Campo Grande"},
		{ID: "recreio", DisplayName: "Recreio"},
		{ID: "barra", DisplayName: "Barra da Tijuca"},
	}
	byID := make(map[string]Unit, len(concrete)+1)
	aggregate := Unit{ID: AggregateID, DisplayName: "Todas as Unidades"}
	byID[aggregate.ID] = aggregate
	for _, u := range concrete {
		byID[u.ID] = u
	}
	return &Registry{aggregate: aggregate, concrete: concrete, byID: byID}
}

// List returns the aggregate pseudo-unit followed by every branch, stable order.
func (r *Registry) List() []Unit {
	out := make([]Unit, 0, len(r.concrete)+1)
	out = append(out, r.aggregate)
	out = append(out, r.concrete...)
	return out
}

// Concrete returns the branches only.
func (r *Registry) Concrete() []Unit {
	out := make([]Unit, len(r.concrete))
	copy(out, r.concrete)
	return out
}

// Resolve maps a unit selector to its display name. Unknown ids fall back to
// a generic label: the selector is user input bound to a closed set, so a
// stale id should degrade rather than fail the whole page.
func (r *Registry) Resolve(unitID string) string {
	if u, ok := r.byID[unitID]; ok {
		return u.DisplayName
	}
	return DefaultDisplayName
}

// Lookup is the strict variant of Resolve for callers that surface errors.
func (r *Registry) Lookup(unitID string) (Unit, error) {
	if u, ok := r.byID[unitID]; ok {
		return u, nil
	}
	return Unit{}, fmt.Errorf("%w: %q", shared.ErrUnknownUnit, unitID)
}

// IsAggregate reports whether the selector names the all-units pseudo-unit.
func (r *Registry) IsAggregate(unitID string) bool {
	return unitID == AggregateID
}

// Known reports whether the selector belongs to the registry.
func (r *Registry) Known(unitID string) bool {
	_, ok := r.byID[unitID]
	return ok
}
