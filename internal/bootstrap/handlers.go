package bootstrap

import (
	"log/slog"
	"os"

	_ "github.com/eleven-am/zone-feedback/docs"
	"github.com/eleven-am/zone-feedback/internal/dispatch"
	"github.com/eleven-am/zone-feedback/internal/feedback"
	"github.com/eleven-am/zone-feedback/internal/reply"
	"github.com/eleven-am/zone-feedback/internal/session"
	"github.com/eleven-am/zone-feedback/internal/zone"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

type HandlerParams struct {
	fx.In

	ZoneHandler     *zone.Handler
	SessionHandler  *session.Handler
	FeedbackHandler *feedback.Handler
	Config          *Config
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/api")

	params.FeedbackHandler.RegisterRoutes(api.Group("/feedback"))

	zones := api.Group("/zones")
	params.ZoneHandler.RegisterRoutes(zones)
	params.SessionHandler.RegisterRoutes(zones)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandlerV3())

	e.Static("/assets", params.Config.StaticDir)
	e.GET("/*", func(c echo.Context) error {
		return c.File(params.Config.IndexHTML)
	})
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideWindow(cfg *Config) dispatch.Window {
	return dispatch.Window{Turns: cfg.HistoryTurns, Chars: cfg.HistoryChars}
}

func ProvideReplyClient(cfg *Config) *reply.Client {
	return reply.NewClient(reply.Config{
		URL:          cfg.ReplyURL,
		Model:        cfg.ReplyModel,
		Timeout:      cfg.ReplyTimeout,
		TokenURL:     cfg.ReplyTokenURL,
		ClientID:     cfg.ReplyClientID,
		ClientSecret: cfg.ReplyClientSecret,
	})
}

func ProvideEventPublisher(redisClient *redis.Client, logger *slog.Logger) *feedback.RedisPublisher {
	return feedback.NewRedisPublisher(redisClient, logger)
}

func ProvideFeedbackService(
	zones *zone.Store,
	generator *reply.Client,
	sessions *session.Store,
	events *feedback.RedisPublisher,
	window dispatch.Window,
	logger *slog.Logger,
) *feedback.Service {
	return feedback.NewService(feedback.Config{
		Zones:     zones,
		Generator: generator,
		Fallback:  reply.Fallback{},
		Metrics:   sessions,
		Events:    events,
		Window:    window,
		Log:       logger,
	})
}

func ProvideZoneHandler(store *zone.Store, logger *slog.Logger) *zone.Handler {
	return zone.NewHandler(store, logger)
}

func ProvideSessionHandler(store *session.Store, logger *slog.Logger) *session.Handler {
	return session.NewHandler(store, logger)
}

func ProvideFeedbackHandler(service *feedback.Service, logger *slog.Logger) *feedback.Handler {
	return feedback.NewHandler(service, logger)
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideWindow,
		ProvideReplyClient,
		ProvideEventPublisher,
		ProvideFeedbackService,
		ProvideZoneHandler,
		ProvideSessionHandler,
		ProvideFeedbackHandler,
	),
	fx.Invoke(RegisterRoutes),
)
