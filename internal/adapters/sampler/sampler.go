// Package sampler defines the metric source contract and a synthetic
// implementation that simulates cluster power draw and efficiency.
//
// Any real telemetry-backed Source must honor the same contract: C >= 0,
// components in [0,1], and a clearly flagged degraded Sample when the
// backing source is unavailable. Fabricating readings that look real is not
// an option.
package sampler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/snowbellsan/psiguard/internal/domain/model"
)

// Simulation shape: a slowly climbing base load with uniform noise, clamped
// a quarter above the ceiling, and three efficiency components with fixed
// centers and noise amplitudes.
const (
	baseLoad     = 60.0  // watts at simulation start
	climbGain    = 50.0  // watts added per climb period on top of the base
	climbPeriod  = 100.0 // seconds for one full climb step
	loadNoise    = 10.0  // uniform noise amplitude on the load
	ceilingSlack = 1.25  // load is clamped at ceilingSlack * ceiling

	basicCenter    = 0.90
	basicNoise     = 0.05
	appliedCenter  = 0.80
	appliedNoise   = 0.10
	creativeCenter = 0.60
	creativeNoise  = 0.15

	defaultSeed = 42
)

// Source produces one Sample per invocation.
type Source interface {
	// Sample returns the current reading, honoring ctx for cancellation.
	// An error means the source is unavailable; callers must degrade to a
	// flagged invalid Sample instead of dropping the tick.
	Sample(ctx context.Context) (model.Sample, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context) (model.Sample, error)

// Sample calls f.
func (f SourceFunc) Sample(ctx context.Context) (model.Sample, error) {
	return f(ctx)
}

// Synthetic implements Source with a deterministic pseudo-random simulation.
// Given the same seed and clock it produces the same sequence of samples.
type Synthetic struct {
	mu      sync.Mutex
	rng     *rand.Rand
	ceiling float64
	now     func() time.Time
	start   time.Time
}

// NewSynthetic creates a synthetic source for the given ceiling.
func NewSynthetic(ceiling float64, opts ...Option) *Synthetic {
	s := &Synthetic{
		rng:     rand.New(rand.NewSource(defaultSeed)), //nolint:gosec // deterministic seed for reproducible simulation
		ceiling: ceiling,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.start = s.now()
	return s
}

// Sample produces the next simulated reading.
func (s *Synthetic) Sample(ctx context.Context) (model.Sample, error) {
	select {
	case <-ctx.Done():
		return model.Sample{}, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	elapsed := ts.Sub(s.start).Seconds()

	base := baseLoad + climbGain*(1+elapsed/climbPeriod)
	load := base + s.uniform(loadNoise)
	load = clamp(load, 0, ceilingSlack*s.ceiling)

	basic := clamp(basicCenter+s.uniform(basicNoise), 0, 1)
	applied := clamp(appliedCenter+s.uniform(appliedNoise), 0, 1)
	creative := clamp(creativeCenter+s.uniform(creativeNoise), 0, 1)

	return model.New(ts, load, basic, applied, creative), nil
}

// uniform returns a value in [-amp, amp).
func (s *Synthetic) uniform(amp float64) float64 {
	return (s.rng.Float64()*2 - 1) * amp
}

func clamp(x, lo, hi float64) float64 {
	switch {
	case x < lo:
		return lo
	case x > hi:
		return hi
	default:
		return x
	}
}
