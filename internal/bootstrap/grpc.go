package bootstrap

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/eleven-am/zone-feedback/internal/health"
	"go.uber.org/fx"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func NewGRPCServer() *grpc.Server {
	return grpc.NewServer()
}

func ProvideGRPCHealth(server *grpc.Server) *grpchealth.Server {
	hs := grpchealth.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	return hs
}

func servingStatus(status health.Status) healthpb.HealthCheckResponse_ServingStatus {
	if status == health.StatusUnhealthy {
		return healthpb.HealthCheckResponse_NOT_SERVING
	}
	return healthpb.HealthCheckResponse_SERVING
}

// WatchReadiness mirrors the HTTP readiness checks into the gRPC health service.
func WatchReadiness(ctx context.Context, hs *grpchealth.Server, h *health.Handler, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	update := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		status, _ := h.Check(checkCtx)
		hs.SetServingStatus("", servingStatus(status))
	}

	update()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			update()
		}
	}
}

func StartGRPCServer(lc fx.Lifecycle, server *grpc.Server, hs *grpchealth.Server, h *health.Handler, cfg *Config, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			lis, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				cancel()
				return err
			}
			go WatchReadiness(ctx, hs, h, cfg.HealthInterval)
			go func() {
				logger.Info("gRPC server starting", "addr", cfg.GRPCAddr)
				if err := server.Serve(lis); err != nil {
					logger.Error("gRPC server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			hs.Shutdown()
			server.GracefulStop()
			return nil
		},
	})
}

var GRPCModule = fx.Options(
	fx.Provide(NewGRPCServer, ProvideGRPCHealth),
	fx.Invoke(StartGRPCServer),
)
