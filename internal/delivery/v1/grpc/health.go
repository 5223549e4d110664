package grpc

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName — имя сервиса в grpc.health.v1. Пустое имя отвечает за сервер целиком.
const ServiceName = "inventory.v1"

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

type optionalDep struct {
	name   string
	pinger Pinger
	up     bool
}

// HealthProbe периодически пингует базу и переключает статус здоровья.
// Необязательные зависимости (кэш) только логируются и на статус не влияют.
type HealthProbe struct {
	pinger   Pinger
	interval time.Duration
	logger   logger.Logger
	serving  atomic.Bool
	optional []*optionalDep

	mu     sync.Mutex
	health *health.Server
}

func NewHealthProbe(pinger Pinger, interval time.Duration, logger logger.Logger) *HealthProbe {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	p := &HealthProbe{pinger: pinger, interval: interval, logger: logger}
	p.serving.Store(true)
	return p
}

// WithOptional добавляет зависимость, недоступность которой не переводит сервис в NOT_SERVING.
// Вызывается до Run.
func (p *HealthProbe) WithOptional(name string, pinger Pinger) *HealthProbe {
	p.optional = append(p.optional, &optionalDep{name: name, pinger: pinger, up: true})
	return p
}

// Serving сообщает результат последней проверки.
func (p *HealthProbe) Serving() bool {
	return p.serving.Load()
}

func (p *HealthProbe) attach(h *health.Server) {
	p.mu.Lock()
	p.health = h
	p.mu.Unlock()
	p.publish(p.Serving())
}

// Run проверяет зависимость сразу и далее с интервалом, пока не отменён ctx.
func (p *HealthProbe) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.Check(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Check выполняет одну проверку и обновляет статус.
func (p *HealthProbe) Check(ctx context.Context) {
	err := p.pinger.Ping(ctx)
	serving := err == nil

	if prev := p.serving.Swap(serving); prev != serving {
		if serving {
			p.logger.Infof("health: database is reachable again")
		} else {
			p.logger.Errorf(err, "health: database ping failed, reporting NOT_SERVING")
		}
	}
	p.publish(serving)

	for _, dep := range p.optional {
		err := dep.pinger.Ping(ctx)
		up := err == nil
		if up == dep.up {
			continue
		}
		dep.up = up
		if up {
			p.logger.Infof("health: %s is reachable again", dep.name)
		} else {
			p.logger.Warnf("health: %s unavailable, serving degraded: %v", dep.name, err)
		}
	}
}

func (p *HealthProbe) publish(serving bool) {
	p.mu.Lock()
	h := p.health
	p.mu.Unlock()
	if h == nil {
		return
	}

	status := healthpb.HealthCheckResponse_SERVING
	if !serving {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.SetServingStatus("", status)
	h.SetServingStatus(ServiceName, status)
}
