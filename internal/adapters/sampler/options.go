package sampler

import (
	"math/rand"
	"time"
)

// Option applies a configuration option to the Synthetic source.
type Option func(*Synthetic)

// WithSeed seeds the pseudo-random generator for deterministic output.
func WithSeed(seed int64) Option {
	return func(s *Synthetic) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic seed for reproducible simulation
	}
}

// WithClock injects the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Synthetic) {
		if now != nil {
			s.now = now
		}
	}
}
