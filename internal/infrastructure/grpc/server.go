package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported for the storefront API.
const ServiceName = "nursery.v1.Storefront"

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// Server exposes grpc.health.v1 for orchestration health checks. Serving status follows
// the dependency checks, re-evaluated every interval.
type Server struct {
	server   *grpc.Server
	health   *health.Server
	logger   *zap.Logger
	address  string
	checks   map[string]Check
	interval time.Duration
}

func NewServer(cfg config.GRPCConfig, log *zap.Logger, checks map[string]Check, development bool) *Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(logger.NewGrpcUnaryServerInterceptor(log)),
		grpc.ChainStreamInterceptor(logger.NewGrpcStreamServerInterceptor(log)),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	if development {
		reflection.Register(server)
	}

	return &Server{
		server:   server,
		health:   healthServer,
		logger:   log,
		address:  cfg.Address(),
		checks:   checks,
		interval: 15 * time.Second,
	}
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}

	s.logger.Info("Starting gRPC health server", zap.String("address", s.address))
	return s.server.Serve(listener)
}

// Watch updates the serving status from the checks until ctx is done.
func (s *Server) Watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.evaluate(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evaluate(ctx)
		}
	}
}

func (s *Server) evaluate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("Dependency check failed", zap.String("dependency", name), zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus(ServiceName, status)
}

func (s *Server) Stop() {
	s.logger.Info("Stopping gRPC server")
	s.health.Shutdown()
	s.server.GracefulStop()
	s.logger.Info("gRPC server stopped")
}
