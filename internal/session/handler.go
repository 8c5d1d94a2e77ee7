package session

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eleven-am/zone-feedback/internal/shared"
	"github.com/labstack/echo/v4"
)

type MetricsListResponse struct {
	ZoneID  string     `json:"zone_id"`
	Hours   int        `json:"hours"`
	Totals  Totals     `json:"totals"`
	Metrics []*Metrics `json:"metrics"`
}

type Totals struct {
	Feedback     int64   `json:"feedback"`
	Degraded     int64   `json:"degraded"`
	Errors       int64   `json:"errors"`
	Dictations   int64   `json:"dictations"`
	Sessions     int64   `json:"sessions"`
	DegradedRate float64 `json:"degraded_rate"`
}

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger.With("handler", "metrics"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/:id/metrics", h.GetMetrics)
}

// GetMetrics godoc
// @Summary      Zone feedback metrics
// @Description  Hourly feedback counters for a zone
// @Tags         zones
// @Produce      json
// @Param        id     path      string  true   "Zone ID"
// @Param        hours  query     int     false  "Window in hours (1-168)"
// @Success      200    {object}  MetricsListResponse
// @Failure      500    {object}  shared.APIError
// @Router       /zones/{id}/metrics [get]
func (h *Handler) GetMetrics(c echo.Context) error {
	zoneID := c.Param("id")

	hours := 24
	if hoursStr := c.QueryParam("hours"); hoursStr != "" {
		if hr, err := strconv.Atoi(hoursStr); err == nil && hr > 0 && hr <= 168 {
			hours = hr
		}
	}

	metrics, err := h.store.GetMetrics(c.Request().Context(), zoneID, hours)
	if err != nil {
		h.logger.Error("failed to get metrics", "error", err, "zone_id", zoneID)
		return shared.InternalError("get_metrics_failed", "failed to get metrics")
	}
	if metrics == nil {
		metrics = []*Metrics{}
	}

	return c.JSON(http.StatusOK, MetricsListResponse{
		ZoneID:  zoneID,
		Hours:   hours,
		Totals:  summarize(metrics),
		Metrics: metrics,
	})
}

func summarize(metrics []*Metrics) Totals {
	var t Totals
	for _, m := range metrics {
		t.Feedback += m.Feedback
		t.Degraded += m.Degraded
		t.Errors += m.Errors
		t.Dictations += m.Dictations
		t.Sessions += m.Sessions
	}
	if t.Feedback > 0 {
		t.DegradedRate = float64(t.Degraded) / float64(t.Feedback) * 100
	}
	return t
}
