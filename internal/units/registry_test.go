package units

import (
	"errors"
	"testing"

	"github.com/colegia/colegia/internal/shared"
)

func TestListIncludesAggregateFirst(t *testing.T) {
	reg := NewRegistry()
	all := reg.List()
	if len(all) != 4 {
		t.Fatalf("expected 4 units got %d", len(all))
	}
	if all[0].ID != AggregateID {
		t.Fatalf("expected aggregate first, got %q", all[0].ID)
	}
	if len(reg.Concrete()) != 3 {
		t.Fatalf("expected 3 concrete units got %d", len(reg.Concrete()))
	}
}

func TestResolveFallsBackOnUnknown(t *testing.T) {
	reg := NewRegistry()
	if got := reg.Resolve("campo-grande"); got != "Campo Grande" {
		t.Fatalf("unexpected display name %q", got)
	}
	if got := reg.Resolve("tijuca"); got != DefaultDisplayName {
		t.Fatalf("expected fallback label, got %q", got)
	}
}

func TestLookupSurfacesUnknownUnit(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Lookup("recreio"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := reg.Lookup("tijuca")
	if !errors.Is(err, shared.ErrUnknownUnit) {
		t.Fatalf("expected ErrUnknownUnit, got %v", err)
	}
}

func TestIsAggregate(t *testing.T) {
	reg := NewRegistry()
	if !reg.IsAggregate("all") {
		t.Fatalf("all should be aggregate")
	}
	if reg.IsAggregate("barra") {
		t.Fatalf("barra should not be aggregate")
	}
}
