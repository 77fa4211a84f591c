package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"github.com/hey-granth/profile-guard/internal/server"
)

func dialBuf(t *testing.T, srv *grpc.Server) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 16)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestGRPCServer_HealthAndRequestID(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	registered := false
	srv := server.NewGRPCServer(log, server.RegistrarFunc(func(*grpc.Server) { registered = true }))
	assert.True(t, registered)

	client := healthpb.NewHealthClient(dialBuf(t, srv))

	t.Run("echoes incoming id", func(t *testing.T) {
		ctx := metadata.AppendToOutgoingContext(context.Background(), server.RequestIDHeader, "req-123")
		var header metadata.MD
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{}, grpc.Header(&header))
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
		assert.Equal(t, []string{"req-123"}, header.Get(server.RequestIDHeader))
	})

	t.Run("generates id", func(t *testing.T) {
		var header metadata.MD
		_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{}, grpc.Header(&header))
		require.NoError(t, err)
		ids := header.Get(server.RequestIDHeader)
		require.Len(t, ids, 1)
		assert.Len(t, ids[0], 36)
	})
}

func TestHealthRouter(t *testing.T) {
	healthy := server.Check{Name: "db", Ping: func(context.Context) error { return nil }}
	broken := server.Check{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	t.Run("healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.NewHealthRouter(broken).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.NewHealthRouter(healthy).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})

	t.Run("not ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		server.NewHealthRouter(healthy, broken).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body struct {
			Status string            `json:"status"`
			Failed map[string]string `json:"failed"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unavailable", body.Status)
		assert.Equal(t, map[string]string{"redis": "connection refused"}, body.Failed)
	})
}
