package performance

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/colegia/colegia/internal/platform/httpx"
)

// Handler serves the branch ranking and its CSV download.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the performance HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the ranking endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.ranking)
	r.Group(func(gr chi.Router) {
		gr.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		gr.Get("/export.csv", h.exportCSV)
	})
}

func (h *Handler) ranking(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Ranking(r.Context())
	if err != nil {
		h.logger.Error("build ranking", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"units": rows})
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Ranking(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="desempenho.csv"`)
	if err := WriteCSV(w, rows); err != nil {
		h.logger.Error("write ranking csv", slog.Any("error", err))
	}
}
