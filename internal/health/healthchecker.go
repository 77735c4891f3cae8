package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker is implemented by component-level checkers (catalog store, state stores).
type HealthChecker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// HealthPinger is implemented by backends that can answer a cheap liveness
// probe, e.g. the SQL catalog or the redis state store.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// ServiceHealthChecker aggregates component checkers into a single service health flag.
type ServiceHealthChecker struct {
	healthy atomic.Int32
	deps    []HealthChecker
	log     zerolog.Logger
}

func NewServiceHealthChecker(log zerolog.Logger, deps ...HealthChecker) *ServiceHealthChecker {
	h := &ServiceHealthChecker{deps: deps, log: log}
	h.healthy.Store(0)
	return h
}

// IsHealthy returns cached service health.
func (h *ServiceHealthChecker) IsHealthy() bool { return h.healthy.Load() == 1 }

// Components reports the cached health of every dependency by name.
func (h *ServiceHealthChecker) Components() map[string]bool {
	out := make(map[string]bool, len(h.deps))
	for _, c := range h.deps {
		out[c.Name()] = c.IsHealthy()
	}
	return out
}

// StartAll launches every dependency checker and the aggregator itself.
func (h *ServiceHealthChecker) StartAll(ctx context.Context, interval time.Duration) {
	for _, c := range h.deps {
		go c.Start(ctx, interval)
	}
	go h.Start(ctx, interval)
}

// Start periodically evaluates dependency health and updates the service flag.
func (h *ServiceHealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := int32(0)
	eval := func() {
		all := true
		for _, c := range h.deps {
			if !c.IsHealthy() {
				all = false
				h.log.Debug().Str("checker", c.Name()).Msg("component unhealthy")
			}
		}
		if all {
			h.healthy.Store(1)
		} else {
			h.healthy.Store(0)
		}
		cur := h.healthy.Load()
		if cur != prev {
			if cur == 1 {
				h.log.Info().Msg("service health: UP")
			} else {
				h.log.Error().Stack().Msg("service health: DOWN")
			}
			prev = cur
		}
	}

	eval()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			eval()
		}
	}
}

// ProbeChecker caches the result of a periodic probe. It starts unhealthy
// until the first probe succeeds.
type ProbeChecker struct {
	name         string
	probe        func(ctx context.Context) error
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

// NewProbeChecker wraps probe as a named HealthChecker.
func NewProbeChecker(name string, probe func(ctx context.Context) error, log zerolog.Logger, probeTimeout time.Duration) *ProbeChecker {
	return &ProbeChecker{name: name, probe: probe, log: log, probeTimeout: probeTimeout}
}

// NewPingChecker probes a HealthPinger.
func NewPingChecker(name string, p HealthPinger, log zerolog.Logger, probeTimeout time.Duration) *ProbeChecker {
	return NewProbeChecker(name, p.HealthPing, log, probeTimeout)
}

func (c *ProbeChecker) Name() string { return c.name }

// IsHealthy returns the cached health status (non-blocking).
func (c *ProbeChecker) IsHealthy() bool { return c.healthy.Load() == 1 }

// Check runs one probe and updates the cached status.
func (c *ProbeChecker) Check(ctx context.Context) bool {
	to := c.probeTimeout
	if to <= 0 {
		to = 2 * time.Second
	}
	checkCtx, cancel := context.WithTimeout(ctx, to)
	defer cancel()

	if err := c.probe(checkCtx); err != nil {
		c.log.Error().Stack().
			Str("checker", c.name).
			Err(err).
			Msg("health check failed")
		c.healthy.Store(0)
		return false
	}
	c.healthy.Store(1)
	return true
}

// Start begins periodic health checking.
func (c *ProbeChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}
