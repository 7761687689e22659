package dre

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/colegia/colegia/internal/platform/httpx"
	"github.com/colegia/colegia/internal/shared"
	"github.com/colegia/colegia/internal/units"
)

// Handler serves statement generation and CSV download.
type Handler struct {
	logger   *slog.Logger
	builder  *Builder
	registry *units.Registry
	validate *validator.Validate
}

// NewHandler constructs the DRE HTTP handler.
func NewHandler(logger *slog.Logger, builder *Builder, registry *units.Registry) *Handler {
	return &Handler{
		logger:   logger,
		builder:  builder,
		registry: registry,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers DRE endpoints onto the router. The export route is
// rate limited: statement downloads are heavier than JSON reads.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.build)
	r.Group(func(gr chi.Router) {
		gr.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		gr.Get("/export.csv", h.exportCSV)
	})
}

type buildRequest struct {
	UnitIDs []string          `json:"unitIds" validate:"required,min=1,dive,required"`
	Period  string            `json:"period"`
	View    string            `json:"view"`
	Schema  *AllocationSchema `json:"schema"`
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	period, err := shared.ParsePeriod(req.Period, req.View)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	var doc Document
	if req.Schema != nil {
		if err := h.validate.Struct(req.Schema); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		doc, err = h.builder.BuildWithSchema(r.Context(), req.UnitIDs, period, *req.Schema)
	} else {
		doc, err = h.builder.Build(r.Context(), req.UnitIDs, period)
	}
	if err != nil {
		h.logger.Error("build dre", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"document": doc, "lines": doc.Lines()})
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	unitIDs := strings.Split(r.URL.Query().Get("units"), ",")
	if len(unitIDs) == 1 && unitIDs[0] == "" {
		unitIDs = []string{units.AggregateID}
	}
	period, err := shared.ParsePeriod(r.URL.Query().Get("period"), r.URL.Query().Get("view"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	doc, err := h.builder.Build(r.Context(), unitIDs, period)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	names := make([]string, len(unitIDs))
	for i, id := range unitIDs {
		names[i] = h.registry.Resolve(id)
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dre.csv"`)
	if err := WriteCSV(w, doc, names); err != nil {
		h.logger.Error("write dre csv", slog.Any("error", err))
	}
}
