package finance

import "testing"

func TestDelinquencySeriesIsSeedDeterministic(t *testing.T) {
	a := NewMockDataSource(42).DelinquencySeries("campo-grande")
	b := NewMockDataSource(42).DelinquencySeries("campo-grande")
	if len(a) != 12 || len(b) != 12 {
		t.Fatalf("expected 12 months, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("month %d differs across same-seed sources: %.4f vs %.4f", i, a[i], b[i])
		}
	}
	for i, rate := range a {
		if rate < 0.5 {
			t.Fatalf("month %d rate %.4f under floor", i, rate)
		}
	}
}

func TestBaseSeriesUnknownUnitIsEmpty(t *testing.T) {
	src := NewMockDataSource(1)
	if got := src.BaseSeries("tijuca"); got != nil {
		t.Fatalf("expected nil series, got %d records", len(got))
	}
	if got := src.Students("tijuca"); got != 0 {
		t.Fatalf("expected zero students, got %d", got)
	}
}
