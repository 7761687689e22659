package kpi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/colegia/colegia/internal/platform/httpx"
)

// Handler serves KPI cards, historical series and goal management.
type Handler struct {
	logger   *slog.Logger
	calc     *Calculator
	goals    *GoalService
	validate *validator.Validate
}

// NewHandler constructs the KPI HTTP handler.
func NewHandler(logger *slog.Logger, calc *Calculator, goals *GoalService) *Handler {
	return &Handler{
		logger:   logger,
		calc:     calc,
		goals:    goals,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers KPI endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/primary", h.primary)
	r.Get("/secondary", h.secondary)
	r.Get("/history", h.history)
	r.Get("/goals", h.listGoals)
	r.Put("/goals/{metric}", h.upsertGoal)
	r.Delete("/goals/{metric}", h.resetGoal)
}

func unitParam(r *http.Request) string {
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = "all"
	}
	return unit
}

func (h *Handler) primary(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.calc.PrimaryKPIs(r.Context(), unitParam(r))
	if err != nil {
		h.logger.Error("primary kpis", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"kpis": kpis})
}

func (h *Handler) secondary(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.calc.SecondaryKPIs(r.Context(), unitParam(r))
	if err != nil {
		h.logger.Error("secondary kpis", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"kpis": kpis})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("title")
	if metric == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "title is required")
		return
	}
	points, err := h.calc.HistoricalSeries(r.Context(), metric, unitParam(r))
	if errors.Is(err, ErrUnknownMetric) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"metric": metric, "points": points})
}

type upsertGoalRequest struct {
	Target float64 `json:"target" validate:"required,gt=0"`
}

func (h *Handler) listGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goals.List(r.Context())
	if err != nil {
		h.logger.Error("list goals", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	current, err := h.calc.CurrentValues(r.Context(), unitParam(r))
	if err != nil {
		h.logger.Warn("current kpi values", slog.Any("error", err))
	} else {
		for i := range goals {
			goals[i].Current = current[goals[i].Metric]
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"goals": goals})
}

func (h *Handler) upsertGoal(w http.ResponseWriter, r *http.Request) {
	var req upsertGoalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	goal, err := h.goals.Upsert(r.Context(), chi.URLParam(r, "metric"), req.Target)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, goal)
}

func (h *Handler) resetGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.goals.Reset(r.Context(), chi.URLParam(r, "metric")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
