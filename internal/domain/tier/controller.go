package tier

import (
	"fmt"

	"github.com/snowbellsan/psiguard/internal/domain/model"
	"github.com/snowbellsan/psiguard/internal/domain/psi"
)

// Directive actions. These are signals for an external collaborator to act
// on; nothing in this package enforces them.
const (
	ActionNone     = "NONE"
	ActionOptimize = "OPTIMIZATION_INITIATED"
	ActionHold     = "HOLD_LAST_DIRECTIVE"
)

// throttleFactor halves the inference rate when the ceiling is crossed.
const throttleFactor = 0.5

// Assessment is the controller's verdict for one sample.
type Assessment struct {
	Tier    Tier
	Action  string
	Ratio   float64
	Psi     float64
	PsiPerC float64
	// InferenceRate is the directive value accompanying the action. It is
	// the baseline rate unless the tier demands throttling or shutdown.
	InferenceRate float64
}

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithScorer sets the efficiency scorer used for Ψ.
func WithScorer(s *psi.Scorer) Option {
	return func(c *Controller) {
		if s != nil {
			c.scorer = s
		}
	}
}

// WithBaseInferenceRate sets the baseline inference rate the throttle
// directive is derived from.
func WithBaseInferenceRate(rate float64) Option {
	return func(c *Controller) {
		if rate > 0 {
			c.baseRate = rate
		}
	}
}

// Controller evaluates samples against a fixed ceiling. The ceiling must be
// positive; config validation rejects anything else before a Controller is
// built. The Controller itself holds no per-tick state.
type Controller struct {
	ceiling  float64
	baseRate float64
	scorer   *psi.Scorer
}

// NewController creates a Controller for the given ceiling.
func NewController(ceiling float64, opts ...Option) *Controller {
	c := &Controller{
		ceiling:  ceiling,
		baseRate: 1.0,
		scorer:   psi.NewScorer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ceiling returns the configured C_max.
func (c *Controller) Ceiling() float64 {
	return c.ceiling
}

// Evaluate classifies one sample and emits the matching directive.
//
// An invalid sample is non-classifiable: it yields the Degraded tier with a
// hold directive rather than defaulting to Nominal. C == 0 is handled by
// defining Ψ/C = 0; it classifies as Nominal like any other sub-ceiling load.
func (c *Controller) Evaluate(s model.Sample) Assessment {
	if !s.Valid {
		return Assessment{
			Tier:          Degraded,
			Action:        ActionHold,
			InferenceRate: c.baseRate,
		}
	}

	score := c.scorer.Score(s.Basic, s.Applied, s.Creative)
	ratio := s.Consumption / c.ceiling

	a := Assessment{
		Tier:          Classify(ratio),
		Ratio:         ratio,
		Psi:           score,
		PsiPerC:       psi.PerConsumption(score, s.Consumption),
		InferenceRate: c.baseRate,
	}

	switch a.Tier {
	case Warning:
		a.Action = ActionOptimize
	case Throttled:
		a.InferenceRate = c.baseRate * throttleFactor
		a.Action = fmt.Sprintf("INFERENCE_RATE: %.2f", a.InferenceRate)
	case Emergency:
		a.InferenceRate = 0
		a.Action = "INFERENCE_RATE: 0.00"
	default:
		a.Action = ActionNone
	}

	return a
}
