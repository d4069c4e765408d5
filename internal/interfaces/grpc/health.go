// Package grpc exposes the standard gRPC health-checking protocol so
// orchestrators can probe the server without speaking the JSON API.
package grpc

import (
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
)

// HealthServer runs a health-check-only gRPC listener.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	port   int
	logger logging.Logger
}

// NewHealthServer builds the server with the overall status NOT_SERVING until
// SetServing is called.
func NewHealthServer(port int, log logging.Logger) *HealthServer {
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	grpcSrv := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)

	return &HealthServer{
		server: grpcSrv,
		health: healthSrv,
		port:   port,
		logger: log.Named("grpc-health"),
	}
}

// SetServing flips the overall status.
func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
}

// Start blocks serving health checks until Stop is called.
func (s *HealthServer) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return err
	}
	s.logger.Info("grpc health server listening", logging.Int("port", s.port))
	return s.server.Serve(lis)
}

// Stop drains the listener gracefully.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
