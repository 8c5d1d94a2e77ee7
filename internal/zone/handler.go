package zone

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/eleven-am/zone-feedback/internal/shared"
	"github.com/labstack/echo/v4"
)

type ListResponse struct {
	Zones []*Zone `json:"zones"`
}

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger.With("handler", "zone"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}

// List godoc
// @Summary      List zones
// @Description  Returns all zones, optionally filtered by building
// @Tags         zones
// @Produce      json
// @Param        building  query     string  false  "Building filter"
// @Success      200       {object}  ListResponse
// @Failure      500       {object}  shared.APIError
// @Router       /zones [get]
func (h *Handler) List(c echo.Context) error {
	zones, err := h.store.List(c.Request().Context(), c.QueryParam("building"))
	if err != nil {
		h.logger.Error("failed to list zones", "error", err)
		return shared.InternalError("list_failed", "failed to list zones")
	}
	if zones == nil {
		zones = []*Zone{}
	}
	return c.JSON(http.StatusOK, ListResponse{Zones: zones})
}

// Get godoc
// @Summary      Get a zone
// @Tags         zones
// @Produce      json
// @Param        id   path      string  true  "Zone ID"
// @Success      200  {object}  Zone
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /zones/{id} [get]
func (h *Handler) Get(c echo.Context) error {
	id := c.Param("id")
	z, err := h.store.Get(c.Request().Context(), id)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound("zone_not_found", "zone not found")
	}
	if err != nil {
		h.logger.Error("failed to get zone", "error", err, "zone_id", id)
		return shared.InternalError("get_failed", "failed to get zone")
	}
	return c.JSON(http.StatusOK, z)
}
