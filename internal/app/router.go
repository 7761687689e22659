package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/colegia/colegia/internal/costcenter"
	"github.com/colegia/colegia/internal/dre"
	"github.com/colegia/colegia/internal/finance"
	"github.com/colegia/colegia/internal/kpi"
	"github.com/colegia/colegia/internal/observability"
	"github.com/colegia/colegia/internal/performance"
	"github.com/colegia/colegia/internal/units"
	"github.com/colegia/colegia/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	UnitsHandler       *units.Handler
	FinanceHandler     *finance.Handler
	KPIHandler         *kpi.Handler
	DREHandler         *dre.Handler
	CostCenterHandler  *costcenter.Handler
	PerformanceHandler *performance.Handler
	DashboardHandler   *DashboardHandler
	JobsHandler        *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Colegia defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/units", params.UnitsHandler.MountRoutes)
		api.Route("/finance", params.FinanceHandler.MountRoutes)
		api.Route("/kpi", params.KPIHandler.MountRoutes)
		api.Route("/dre", params.DREHandler.MountRoutes)
		api.Route("/costcenters", params.CostCenterHandler.MountRoutes)
		api.Route("/performance", params.PerformanceHandler.MountRoutes)
		api.Route("/dashboard", params.DashboardHandler.MountRoutes)
		if params.JobsHandler != nil {
			api.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
