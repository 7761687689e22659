package units

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewRegistry())
	r := chi.NewRouter()
	r.Route("/units", h.MountRoutes)
	return r
}

func TestGetUnitByID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/units/campo-grande", nil)
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var unit Unit
	if err := json.NewDecoder(rec.Body).Decode(&unit); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if unit.DisplayName != "Campo Grande" {
		t.Fatalf("unexpected display name %q", unit.DisplayName)
	}
}

func TestGetUnknownUnitIsNotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/units/tijuca", nil)
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
