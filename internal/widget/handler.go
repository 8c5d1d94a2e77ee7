package widget

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eleven-am/zone-feedback/internal/dispatch"
	"github.com/eleven-am/zone-feedback/internal/session"
	"github.com/eleven-am/zone-feedback/internal/shared"
	"github.com/eleven-am/zone-feedback/internal/speech"
	"github.com/eleven-am/zone-feedback/internal/zone"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type ZoneLookup interface {
	Get(ctx context.Context, id string) (*zone.Zone, error)
}

type SessionStore interface {
	Resolve(ctx context.Context, id, zoneID string) (*session.Session, error)
	Touch(ctx context.Context, id string) error
	IncrementMetric(ctx context.Context, zoneID string, field string, value int64) error
}

type HandlerConfig struct {
	Zones             ZoneLookup
	Sessions          SessionStore
	Sender            dispatch.Sender
	Registry          *Registry
	Segmenter         *speech.Segmenter
	Window            dispatch.Window
	PermissionTimeout time.Duration
	AllowedOrigins    []string
	Logger            *slog.Logger
}

type Handler struct {
	cfg      HandlerConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry(cfg.Logger)
	}
	return &Handler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.AllowedOrigins),
		},
		logger: cfg.Logger.With("handler", "widget"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/ws", h.Connect)
	g.GET("/stats", h.Stats)
}

// Connect godoc
// @Summary      Open a widget connection
// @Description  Upgrades to a websocket carrying dictation and chat frames for one zone
// @Tags         widget
// @Param        zone     query  string  false  "Zone ID"
// @Param        page     query  string  false  "Page URL the zone is derived from when zone is absent"
// @Param        session  query  string  false  "Session ID from a previous connection"
// @Param        speak    query  string  false  "1 to receive speech segments"
// @Param        lang     query  string  false  "Recognition language"
// @Failure      400  {object}  shared.APIError
// @Failure      404  {object}  shared.APIError
// @Router       /v1/widget/ws [get]
func (h *Handler) Connect(c echo.Context) error {
	ctx := c.Request().Context()

	zoneID := strings.TrimSpace(c.QueryParam("zone"))
	if zoneID == "" {
		id, err := zone.FromURL(c.QueryParam("page"))
		if err != nil {
			return shared.BadRequest("missing_zone", "zone is required")
		}
		zoneID = id
	}

	z, err := h.cfg.Zones.Get(ctx, zoneID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound("zone_not_found", "zone not found")
	}
	if err != nil {
		h.logger.Error("failed to get zone", "error", err, "zone_id", zoneID)
		return shared.InternalError("zone_lookup_failed", "failed to look up zone")
	}

	sess, err := h.cfg.Sessions.Resolve(ctx, c.QueryParam("session"), z.ID)
	if err != nil {
		h.logger.Error("failed to resolve session", "error", err, "zone_id", z.ID)
		return shared.InternalError("session_failed", "failed to resolve session")
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return nil
	}

	log := h.logger.With("session_id", sess.ID, "zone_id", z.ID)
	w, err := New(Config{
		Conn:              NewConn(ws, log),
		Zone:              z,
		SessionID:         sess.ID,
		Sender:            h.cfg.Sender,
		Window:            h.cfg.Window,
		Segmenter:         h.cfg.Segmenter,
		Speak:             c.QueryParam("speak") == "1",
		Lang:              c.QueryParam("lang"),
		PermissionTimeout: h.cfg.PermissionTimeout,
		Metrics:           h.cfg.Sessions,
		Log:               h.logger,
	})
	if err != nil {
		h.logger.Error("failed to create widget", "error", err)
		_ = ws.Close()
		return nil
	}

	h.cfg.Registry.Add(w)
	w.Run(ctx)
	h.cfg.Registry.Remove(w.ID())

	touchCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.cfg.Sessions.Touch(touchCtx, sess.ID); err != nil {
		h.logger.Debug("failed to touch session", "error", err, "session_id", sess.ID)
	}
	return nil
}

// Stats godoc
// @Summary      Live widget statistics
// @Tags         widget
// @Produce      json
// @Success      200  {object}  Stats
// @Router       /v1/widget/stats [get]
func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cfg.Registry.Stats())
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		if o != "" {
			set[strings.ToLower(o)] = true
		}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return set[strings.ToLower(u.Scheme+"://"+u.Host)]
	}
}
