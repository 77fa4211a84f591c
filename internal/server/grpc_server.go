package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/hey-granth/profile-guard/internal/config"
	"github.com/hey-granth/profile-guard/internal/logger"
	_ "github.com/hey-granth/profile-guard/internal/proto/guard" // registers the json codec
)

// RequestIDHeader carries the request id in gRPC metadata.
const RequestIDHeader = "x-request-id"

// NewGRPCServer builds a gRPC server with logging, health and reflection, and
// registers all provided services.
func NewGRPCServer(log *slog.Logger, registrars ...Registrar) *grpc.Server {
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryLoggingInterceptor(log)))

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	healthpb.RegisterHealthServer(grpcServer, health.NewServer())

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	return grpcServer
}

// StartGRPCServer listens on the configured address and serves until the
// server is stopped.
func StartGRPCServer(cfg *config.Config, grpcServer *grpc.Server) error {
	addr := fmt.Sprintf("%s:%s", cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return grpcServer.Serve(lis)
}

// UnaryLoggingInterceptor tags every call with a request id (taken from the
// x-request-id header or generated), puts a request-scoped logger into the
// context and logs the outcome.
func UnaryLoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := incomingRequestID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		reqLog := log.With("request_id", requestID, "method", info.FullMethod)
		ctx = logger.WithContext(ctx, reqLog)

		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		reqLog.Debug("rpc finished", "code", code.String(), "duration", time.Since(start))
		return resp, err
	}
}

func incomingRequestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDHeader); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}
