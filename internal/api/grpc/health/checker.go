package health

import (
	"context"
	"time"

	"github.com/dtroode/cloudblog/internal/logger"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Probe is a named dependency check.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// Checker reports dependency health through the standard gRPC health service.
// The overall service ("") and every probe name get their own serving status.
type Checker struct {
	server   *health.Server
	probes   []Probe
	interval time.Duration
	timeout  time.Duration
	logger   *logger.Logger
}

// NewChecker creates a Checker running probes every interval.
func NewChecker(interval time.Duration, logger *logger.Logger, probes ...Probe) *Checker {
	timeout := interval / 2
	if timeout <= 0 {
		timeout = time.Second
	}

	return &Checker{
		server:   health.NewServer(),
		probes:   probes,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Server returns the health service to register on a gRPC server.
func (c *Checker) Server() *health.Server {
	return c.server
}

// CheckOnce runs every probe and updates serving statuses. It returns false
// when at least one probe failed.
func (c *Checker) CheckOnce(ctx context.Context) bool {
	healthy := true

	for _, p := range c.probes {
		checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := p.Check(checkCtx)
		cancel()

		st := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			healthy = false
			st = healthpb.HealthCheckResponse_NOT_SERVING
			c.logger.Warn("Health checker: probe failed", "probe", p.Name, "error", err)
		}
		c.server.SetServingStatus(p.Name, st)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	c.server.SetServingStatus("", overall)

	return healthy
}

// Run checks dependencies immediately and then on every tick until ctx is done.
func (c *Checker) Run(ctx context.Context) {
	c.CheckOnce(ctx)

	if c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckOnce(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING and ignores later updates.
func (c *Checker) Shutdown() {
	c.logger.Info("Health checker: shutting down")
	c.server.Shutdown()
}
