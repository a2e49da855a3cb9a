package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/config"
)

// ServiceName is the name reported to gRPC health checks.
const ServiceName = "skilllink.Backend"

const healthProbeInterval = 15 * time.Second

// NewGRPCServer builds the health server. Both the overall ("") and the
// named service status follow the database: SERVING while it answers a
// ping, NOT_SERVING otherwise.
func NewGRPCServer() (*grpc.Server, *grpchealth.Server) {
	grpcServer := grpc.NewServer()
	hs := grpchealth.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)
	return grpcServer, hs
}

// ProbeHealth sets the serving status once from a DB ping.
func ProbeHealth(ctx context.Context, appCtx *app.AppContext, hs *grpchealth.Server) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := pingDB(pingCtx, appCtx); err != nil {
		appCtx.Logger.Warn("health probe failed", "err", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	hs.SetServingStatus("", status)
	hs.SetServingStatus(ServiceName, status)
	return status
}

// StartGRPCServer boots the gRPC health listener and keeps its status
// current until ctx is cancelled.
func StartGRPCServer(ctx context.Context, cfg *config.Config, appCtx *app.AppContext) error {
	addr := fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	grpcServer, hs := NewGRPCServer()
	ProbeHealth(ctx, appCtx, hs)

	go func() {
		ticker := time.NewTicker(healthProbeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				hs.Shutdown()
				grpcServer.GracefulStop()
				return
			case <-ticker.C:
				ProbeHealth(ctx, appCtx, hs)
			}
		}
	}()

	return grpcServer.Serve(lis)
}
