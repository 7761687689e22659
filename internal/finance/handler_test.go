package finance

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/colegia/colegia/internal/shared"
	"github.com/colegia/colegia/internal/units"
)

func newTestRouter() http.Handler {
	agg := NewAggregator(units.NewRegistry(), NewMockDataSource(7), nil)
	h := NewHandler(slog.New(slog.NewTextHandler(os.Stderr, nil)), agg)
	r := chi.NewRouter()
	r.Route("/finance", h.MountRoutes)
	return r
}

func TestSeriesEndpointFullSeries(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/finance/series", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Unit   string          `json:"unit"`
		Series []MonthlyRecord `json:"series"`
		Totals Totals          `json:"totals"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Unit != units.AggregateID {
		t.Fatalf("expected aggregate default, got %q", resp.Unit)
	}
	if len(resp.Series) != 12 {
		t.Fatalf("expected 12 months, got %d", len(resp.Series))
	}
	if resp.Series[11].Revenue != 245780 || resp.Series[11].Expense != 192000 {
		t.Fatalf("unexpected consolidated December: %+v", resp.Series[11])
	}
}

func TestSeriesEndpointMonthSelector(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/finance/series?unit=campo-grande&year=2025&month=12", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}

	var resp struct {
		Series []MonthlyRecord `json:"series"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Series) != 1 || resp.Series[0].Period != "2025-12" {
		t.Fatalf("expected single December record, got %+v", resp.Series)
	}
}

func TestSeriesEndpointRejectsBadInput(t *testing.T) {
	for _, target := range []string{
		"/finance/series?unit=centro",
		"/finance/series?year=abc",
		"/finance/series?year=2025&month=13",
		"/finance/series?view=quarter",
	} {
		rr := httptest.NewRecorder()
		newTestRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		if rr.Code == http.StatusOK {
			t.Fatalf("%s: expected error status, got 200", target)
		}
	}
}

func TestPeriodFromQueryYearOnlyAnchorsJanuary(t *testing.T) {
	p, err := periodFromQuery("2025", "", "ytd")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Year != 2025 || p.Month != time.January || p.View != shared.ViewYTD {
		t.Fatalf("unexpected period: %+v", p)
	}
}
