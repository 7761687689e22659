package finance

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/colegia/colegia/internal/platform/httpx"
	"github.com/colegia/colegia/internal/shared"
	"github.com/colegia/colegia/internal/units"
)

// Handler exposes the monthly series over HTTP.
type Handler struct {
	logger *slog.Logger
	agg    *Aggregator
}

// NewHandler constructs the finance HTTP handler.
func NewHandler(logger *slog.Logger, agg *Aggregator) *Handler {
	return &Handler{logger: logger, agg: agg}
}

// MountRoutes registers the series endpoint onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/series", h.series)
}

func (h *Handler) series(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unitID := q.Get("unit")
	if unitID == "" {
		unitID = units.AggregateID
	}
	period, err := periodFromQuery(q.Get("year"), q.Get("month"), q.Get("view"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	series, err := h.agg.MonthlySeries(r.Context(), unitID, period)
	if err != nil {
		h.logger.Error("load series", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"unit":   unitID,
		"series": series,
		"totals": SumSeries(series),
	})
}

// periodFromQuery assembles a period selector from year/month/view query
// parameters. Year without month anchors on January so a YTD view spans the
// whole requested year.
func periodFromQuery(year, month, view string) (shared.Period, error) {
	if year == "" {
		if view == "" {
			// No selector at all keeps the full series.
			return shared.Period{}, nil
		}
		return shared.ParsePeriod("", view)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return shared.Period{}, fmt.Errorf("%w: year %q", shared.ErrInvalidPeriod, year)
	}
	m := 1
	if month != "" {
		m, err = strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			return shared.Period{}, fmt.Errorf("%w: month %q", shared.ErrInvalidPeriod, month)
		}
	}
	return shared.ParsePeriod(fmt.Sprintf("%04d-%02d", y, m), view)
}
