// Package grpcx serves the standard gRPC health service for the shop API.
package grpcx

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/tienda-ecom/internal/logger"
)

// ServiceName is the name probes ask for; "" reports overall health.
const ServiceName = "tienda.ShopAPI"

type Pinger func(ctx context.Context) error

type HealthServer struct {
	grpc   *grpc.Server
	health *health.Server
	ping   Pinger
	every  time.Duration
	log    *logger.Logger
}

func NewHealthServer(ping Pinger, every time.Duration, log *logger.Logger) *HealthServer {
	if log == nil {
		log = logger.Nop()
	}
	if every <= 0 {
		every = 10 * time.Second
	}
	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	return &HealthServer{grpc: gs, health: hs, ping: ping, every: every, log: log.With("component", "grpc-health")}
}

// Check pings once and publishes the result.
func (s *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if s.ping != nil {
		if err := s.ping(ctx); err != nil {
			s.log.Warn("store ping failed", "error", err)
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
	return st
}

// Serve blocks until lis fails or ctx is done, re-checking health on a ticker.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	s.Check(ctx)
	go func() {
		t := time.NewTicker(s.every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Check(ctx)
			}
		}
	}()
	s.log.Info("grpc health listening", "addr", lis.Addr().String())
	return s.grpc.Serve(lis)
}

// Stop marks everything NOT_SERVING and drains the server.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
