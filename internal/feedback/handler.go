package feedback

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/eleven-am/zone-feedback/internal/dispatch"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("handler", "feedback"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Submit)
}

// Submit godoc
// @Summary      Submit zone feedback
// @Description  Sends one occupant message with recent history and returns the assistant reply
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        request  body      dispatch.Request  true  "Feedback message"
// @Success      200      {object}  dispatch.Response
// @Failure      400      {object}  dispatch.ErrorResponse
// @Failure      404      {object}  dispatch.ErrorResponse
// @Failure      500      {object}  dispatch.ErrorResponse
// @Router       /feedback [post]
func (h *Handler) Submit(c echo.Context) error {
	var req dispatch.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dispatch.ErrorResponse{Error: "invalid request body"})
	}

	out, err := h.service.Send(c.Request().Context(), req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, dispatch.ResponseFromReply(out))
	case errors.Is(err, dispatch.ErrEmptyMessage):
		return c.JSON(http.StatusBadRequest, dispatch.ErrorResponse{Error: "message is required"})
	case errors.Is(err, dispatch.ErrMissingZone):
		return c.JSON(http.StatusBadRequest, dispatch.ErrorResponse{Error: "zoneId is required"})
	case errors.Is(err, ErrUnknownZone):
		return c.JSON(http.StatusNotFound, dispatch.ErrorResponse{Error: "unknown zone"})
	default:
		h.logger.Error("feedback failed", "error", err, "zone_id", req.ZoneID)
		return c.JSON(http.StatusInternalServerError, dispatch.ErrorResponse{Error: "failed to process feedback"})
	}
}
