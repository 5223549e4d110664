package grpc

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(context.Context) error { return s.err }

func status(t *testing.T, h *health.Server) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	res, err := h.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	return res.GetStatus()
}

func TestHealthProbeFlipsStatus(t *testing.T) {
	pinger := &stubPinger{}
	probe := NewHealthProbe(pinger, 0, nopLogger{})
	h := health.NewServer()
	probe.attach(h)

	if got := status(t, h); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("initial status = %v", got)
	}

	pinger.err = errors.New("connection refused")
	probe.Check(context.Background())
	if probe.Serving() {
		t.Fatal("probe still serving after failed ping")
	}
	if got := status(t, h); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("status after failure = %v", got)
	}

	pinger.err = nil
	probe.Check(context.Background())
	if !probe.Serving() {
		t.Fatal("probe did not recover")
	}
	if got := status(t, h); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status after recovery = %v", got)
	}
}

func TestHealthProbeWithoutServer(t *testing.T) {
	probe := NewHealthProbe(&stubPinger{err: errors.New("down")}, 0, nopLogger{})
	probe.Check(context.Background())
	if probe.Serving() {
		t.Fatal("expected degraded status")
	}
}

func TestHealthProbeIgnoresOptionalFailure(t *testing.T) {
	cache := &stubPinger{err: errors.New("redis: connection refused")}
	probe := NewHealthProbe(&stubPinger{}, 0, nopLogger{}).WithOptional("redis", cache)
	h := health.NewServer()
	probe.attach(h)

	probe.Check(context.Background())
	if !probe.Serving() {
		t.Fatal("optional dependency must not degrade serving status")
	}
	if got := status(t, h); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status = %v", got)
	}
	if probe.optional[0].up {
		t.Fatal("optional dependency still marked up")
	}

	cache.err = nil
	probe.Check(context.Background())
	if !probe.optional[0].up {
		t.Fatal("optional dependency did not recover")
	}
}
