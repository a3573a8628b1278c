package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/semaphore"
)

// Defaults sized for a Riot development key (20 req/s, 100 req/2min).
const (
	DefaultCapacity = 10
	DefaultSpacing  = 50 * time.Millisecond
)

var (
	riotGateInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "riot_gate_in_flight",
		Help: "Number of outbound Riot requests currently holding a gate permit",
	})

	riotGateWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "riot_gate_wait_seconds",
		Help:    "Time spent waiting for a gate permit",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)

// GateConfig holds gate configuration.
type GateConfig struct {
	// Capacity is the maximum number of outstanding requests
	Capacity int

	// Spacing is held after every request, success or failure, before the
	// permit is returned
	Spacing time.Duration
}

// DefaultGateConfig returns the default gate configuration.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		Capacity: DefaultCapacity,
		Spacing:  DefaultSpacing,
	}
}

// Gate bounds concurrent outbound requests and spaces them out. Waiters
// queue without limit and are served in no particular order.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int
	spacing  time.Duration

	inFlight atomic.Int64
	peak     atomic.Int64
}

// Permit is a held gate slot. Releasing it twice is a no-op.
type Permit struct {
	released *atomic.Bool
}

// NewGate creates a gate. Non-positive capacity falls back to the default;
// a negative spacing is treated as zero.
func NewGate(cfg GateConfig) *Gate {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Spacing < 0 {
		cfg.Spacing = 0
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(cfg.Capacity)),
		capacity: cfg.Capacity,
		spacing:  cfg.Spacing,
	}
}

// Capacity returns the configured concurrency ceiling.
func (g *Gate) Capacity() int {
	return g.capacity
}

// InFlight returns the number of permits currently held.
func (g *Gate) InFlight() int {
	return int(g.inFlight.Load())
}

// Peak returns the highest InFlight value observed.
func (g *Gate) Peak() int {
	return int(g.peak.Load())
}

// Acquire blocks until a slot is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) (Permit, error) {
	start := time.Now()
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return Permit{}, fmt.Errorf("acquire gate permit: %w", err)
	}
	riotGateWaitSeconds.Observe(time.Since(start).Seconds())

	n := g.inFlight.Add(1)
	riotGateInFlight.Inc()
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}

	return Permit{released: new(atomic.Bool)}, nil
}

// Release returns a permit to the gate.
func (g *Gate) Release(p Permit) {
	if p.released == nil || !p.released.CompareAndSwap(false, true) {
		return
	}
	g.inFlight.Add(-1)
	riotGateInFlight.Dec()
	g.sem.Release(1)
}

// Do runs fn while holding a permit, then holds the permit for the spacing
// delay before releasing it. The error from fn is returned unchanged.
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p, err := g.Acquire(ctx)
	if err != nil {
		return err
	}
	defer g.Release(p)

	err = fn(ctx)
	g.pause(ctx)
	return err
}

func (g *Gate) pause(ctx context.Context) {
	if g.spacing <= 0 {
		return
	}
	timer := time.NewTimer(g.spacing)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
