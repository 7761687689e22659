package shared

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2025-03", "ytd")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Year != 2025 || p.Month != time.March || p.View != ViewYTD {
		t.Fatalf("unexpected period: %+v", p)
	}
	if p.Code() != "2025-03" {
		t.Fatalf("code round trip: %q", p.Code())
	}
}

func TestParsePeriodDefaults(t *testing.T) {
	p, err := ParsePeriod("", "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !p.IsZero() || p.View != ViewCurrent {
		t.Fatalf("expected zero period with current view, got %+v", p)
	}
}

func TestParsePeriodRejectsBadTokens(t *testing.T) {
	if _, err := ParsePeriod("2025-13", ""); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod for bad month, got %v", err)
	}
	if _, err := ParsePeriod("2025-01", "quarter"); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod for bad view, got %v", err)
	}
}

func TestPreviousWrapsYear(t *testing.T) {
	p := Period{Year: 2025, Month: time.January}
	prev := p.Previous()
	if prev.Year != 2024 || prev.Month != time.December {
		t.Fatalf("expected 2024-12, got %+v", prev)
	}

	p = Period{Year: 2025, Month: time.July}
	prev = p.Previous()
	if prev.Year != 2025 || prev.Month != time.June {
		t.Fatalf("expected 2025-06, got %+v", prev)
	}
}

func TestFormatBRL(t *testing.T) {
	got := FormatBRL(98500)
	if !strings.HasPrefix(got, "R$") {
		t.Fatalf("expected R$ prefix, got %q", got)
	}
	if !strings.Contains(got, "98.500,00") {
		t.Fatalf("expected pt-BR separators, got %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(22.034); !strings.Contains(got, "22,0%") {
		t.Fatalf("unexpected percent formatting: %q", got)
	}
}
