package server_test

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/oggyb/skilllink/internal/app/apptest"
	"github.com/oggyb/skilllink/internal/db"
	"github.com/oggyb/skilllink/internal/server"
)

func TestGRPCHealthFollowsDatabase(t *testing.T) {
	ctx := context.Background()
	appCtx, _ := apptest.New(t)

	grpcServer, hs := server.NewGRPCServer()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = grpcServer.Serve(lis) }()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	client := healthpb.NewHealthClient(conn)

	status := server.ProbeHealth(ctx, appCtx, hs)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: server.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	// a closed pool fails the ping
	require.NoError(t, db.Close(appCtx.DB))
	status = server.ProbeHealth(ctx, appCtx, hs)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)

	resp, err = client.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}
