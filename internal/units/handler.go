package units

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/colegia/colegia/internal/platform/httpx"
)

// Handler serves the unit selector contents.
type Handler struct {
	logger   *slog.Logger
	registry *Registry
}

// NewHandler constructs the units HTTP handler.
func NewHandler(logger *slog.Logger, registry *Registry) *Handler {
	return &Handler{logger: logger, registry: registry}
}

// MountRoutes registers unit endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{unitID}", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"units": h.registry.List()})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	unit, err := h.registry.Lookup(chi.URLParam(r, "unitID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, unit)
}
