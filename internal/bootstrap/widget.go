package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/zone-feedback/internal/dispatch"
	"github.com/eleven-am/zone-feedback/internal/feedback"
	"github.com/eleven-am/zone-feedback/internal/session"
	"github.com/eleven-am/zone-feedback/internal/speech"
	"github.com/eleven-am/zone-feedback/internal/widget"
	"github.com/eleven-am/zone-feedback/internal/zone"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

func ProvideWidgetRegistry(lc fx.Lifecycle, logger *slog.Logger) *widget.Registry {
	registry := widget.NewRegistry(logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return registry.Close()
		},
	})
	return registry
}

func ProvideSegmenter(logger *slog.Logger) *speech.Segmenter {
	return speech.NewSegmenter(logger)
}

// ProvideSender answers widget messages in-process unless a remote feedback endpoint is
// configured.
func ProvideSender(cfg *Config, service *feedback.Service, logger *slog.Logger) dispatch.Sender {
	if cfg.FeedbackURL != "" {
		logger.Info("widgets use remote feedback endpoint", "url", cfg.FeedbackURL)
		return dispatch.NewClient(cfg.FeedbackURL, cfg.ReplyTimeout)
	}
	return service
}

func ProvideWidgetHandler(
	cfg *Config,
	zones *zone.Store,
	sessions *session.Store,
	sender dispatch.Sender,
	registry *widget.Registry,
	segmenter *speech.Segmenter,
	window dispatch.Window,
	logger *slog.Logger,
) *widget.Handler {
	return widget.NewHandler(widget.HandlerConfig{
		Zones:             zones,
		Sessions:          sessions,
		Sender:            sender,
		Registry:          registry,
		Segmenter:         segmenter,
		Window:            window,
		PermissionTimeout: cfg.PermissionTimeout,
		AllowedOrigins:    cfg.AllowedOrigins,
		Logger:            logger,
	})
}

func RegisterWidgetRoutes(e *echo.Echo, h *widget.Handler) {
	h.RegisterRoutes(e.Group("/api/v1/widget"))
}

var WidgetModule = fx.Options(
	fx.Provide(
		ProvideWidgetRegistry,
		ProvideSegmenter,
		ProvideSender,
		ProvideWidgetHandler,
	),
	fx.Invoke(RegisterWidgetRoutes),
)
