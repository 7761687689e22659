package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/colegia/colegia/internal/costcenter"
	"github.com/colegia/colegia/internal/finance"
	"github.com/colegia/colegia/internal/kpi"
	"github.com/colegia/colegia/internal/platform/httpx"
	"github.com/colegia/colegia/internal/shared"
	"github.com/colegia/colegia/internal/units"
)

// DashboardHandler assembles the landing dashboard in one round trip. Each
// panel loads concurrently; one failing panel fails the whole request so the
// client never renders a half-consistent dashboard.
type DashboardHandler struct {
	logger     *slog.Logger
	aggregator *finance.Aggregator
	calculator *kpi.Calculator
	costs      *costcenter.Service
}

// NewDashboardHandler constructs the dashboard fan-out handler.
func NewDashboardHandler(logger *slog.Logger, aggregator *finance.Aggregator, calculator *kpi.Calculator, costs *costcenter.Service) *DashboardHandler {
	return &DashboardHandler{logger: logger, aggregator: aggregator, calculator: calculator, costs: costs}
}

// MountRoutes registers the dashboard endpoint onto the router.
func (h *DashboardHandler) MountRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
}

func (h *DashboardHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	unitID := r.URL.Query().Get("unit")
	if unitID == "" {
		unitID = units.AggregateID
	}

	var (
		primary   []kpi.KPI
		secondary []kpi.KPI
		series    []finance.MonthlyRecord
		metrics   costcenter.Metrics
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		primary, err = h.calculator.PrimaryKPIs(ctx, unitID)
		return err
	})
	g.Go(func() error {
		var err error
		secondary, err = h.calculator.SecondaryKPIs(ctx, unitID)
		return err
	})
	g.Go(func() error {
		var err error
		series, err = h.aggregator.MonthlySeries(ctx, unitID, shared.Period{})
		return err
	})
	g.Go(func() error {
		var err error
		metrics, err = h.costs.Metrics(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("assemble dashboard", slog.String("unit", unitID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"unit":       unitID,
		"primary":    primary,
		"secondary":  secondary,
		"series":     series,
		"costCenter": metrics,
	})
}
