// Package psi computes the combined efficiency score from the three
// efficiency components and the efficiency-per-consumption ratio.
package psi

// Weights holds the relative weight of each efficiency component.
// Weights are normalized at scoring time, so only their ratios matter.
type Weights struct {
	Basic    float64
	Applied  float64
	Creative float64
}

// DefaultWeights returns the equal-thirds weighting.
func DefaultWeights() Weights {
	return Weights{Basic: 1.0 / 3, Applied: 1.0 / 3, Creative: 1.0 / 3}
}

// valid reports whether the weights can be normalized: none negative,
// and at least one positive.
func (w Weights) valid() bool {
	if w.Basic < 0 || w.Applied < 0 || w.Creative < 0 {
		return false
	}
	return w.Basic+w.Applied+w.Creative > 0
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights sets the component weights. Invalid weights are ignored and
// the scorer keeps its previous (default) weighting.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		if w.valid() {
			s.weights = w
		}
	}
}

// Scorer computes the combined efficiency score Ψ.
//
// Ψ is the normalized weighted mean of the three components. Because every
// normalized weight is non-negative and they sum to 1, Ψ is total over the
// component domain and monotonically non-decreasing in each component.
type Scorer struct {
	weights Weights
}

// NewScorer creates a Scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the configured component weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score computes Ψ for the given components. Components are clamped to
// [0,1] before weighting, so out-of-range inputs cannot push the score
// outside the unit interval.
func (s *Scorer) Score(basic, applied, creative float64) float64 {
	total := s.weights.Basic + s.weights.Applied + s.weights.Creative
	sum := s.weights.Basic*clamp01(basic) +
		s.weights.Applied*clamp01(applied) +
		s.weights.Creative*clamp01(creative)
	return sum / total
}

// PerConsumption returns Ψ/C, the efficiency-per-resource-unit ratio.
// Defined as 0 when C <= 0 so the ratio is total and never divides by zero.
func PerConsumption(score, consumption float64) float64 {
	if consumption <= 0 {
		return 0
	}
	return score / consumption
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
