package health

import (
	"context"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthv1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"log/slog"
)

// Checker reports whether service dependencies are reachable
type Checker interface {
	Check(ctx context.Context) error
}

type serverAPI struct {
	healthv1.UnimplementedHealthServer
	log     *slog.Logger
	checker Checker
}

func Register(gRPC *grpc.Server, log *slog.Logger, checker Checker) {
	healthv1.RegisterHealthServer(gRPC, &serverAPI{log: log, checker: checker})
}

// Check reports SERVING when storage and cache answer, only overall service "" is known
func (s *serverAPI) Check(ctx context.Context, req *healthv1.HealthCheckRequest) (*healthv1.HealthCheckResponse, error) {
	const op = "health.Check"

	if req.GetService() != "" {
		return nil, status.Error(codes.NotFound, "unknown service")
	}
	if err := s.checker.Check(ctx); err != nil {
		s.log.With(slog.String("op", op)).Warn("dependency is unavailable", slog.String("error", err.Error()))
		return &healthv1.HealthCheckResponse{Status: healthv1.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthv1.HealthCheckResponse{Status: healthv1.HealthCheckResponse_SERVING}, nil
}
