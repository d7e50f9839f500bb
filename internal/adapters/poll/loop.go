// Package poll drives the monitoring loop: one sample, one classification,
// one published reading per tick.
package poll

import (
	"context"
	"fmt"
	"time"

	"github.com/snowbellsan/psiguard/internal/domain/model"
	"github.com/snowbellsan/psiguard/internal/domain/tier"
	"github.com/snowbellsan/psiguard/internal/domain/types"
	"github.com/snowbellsan/psiguard/pkg/logger"
	"github.com/snowbellsan/psiguard/pkg/metrics"
)

// Default loop configuration constants.
const (
	defaultInterval      = 1 * time.Second
	defaultSampleTimeout = 500 * time.Millisecond
)

// Source produces one sample per tick.
type Source interface {
	Sample(ctx context.Context) (model.Sample, error)
}

// Evaluator classifies a sample against the ceiling.
type Evaluator interface {
	Evaluate(s model.Sample) tier.Assessment
	Ceiling() float64
}

// Recorder appends a reading to the history.
type Recorder interface {
	Append(ctx context.Context, r types.Reading)
}

// Publisher fans a reading out to subscribers.
type Publisher interface {
	Publish(ctx context.Context, r types.Reading) int
}

// Loop is the single writer of the monitoring state. Each tick samples the
// source, classifies the result, records it, and publishes it. A failure in
// one tick is logged and isolated; the loop continues on the next tick.
type Loop struct {
	source    Source
	evaluator Evaluator
	recorder  Recorder
	publisher Publisher

	interval      time.Duration
	sampleTimeout time.Duration

	// Classification is stateless per tick by default, which can flap near
	// a band boundary. A positive debounce window requires a new tier to
	// persist that many consecutive ticks before it is published. Zero (the
	// default) keeps every tick's fresh classification.
	debounceTicks int

	// Published-tier state, touched only by the loop goroutine.
	started       bool
	currentTier   tier.Tier
	currentAction string
	currentRate   float64
	pendingTier   tier.Tier
	pendingCount  int

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewLoop creates a Loop with configuration options.
func NewLoop(source Source, evaluator Evaluator, recorder Recorder, publisher Publisher, opts ...Option) *Loop {
	l := &Loop{
		source:        source,
		evaluator:     evaluator,
		recorder:      recorder,
		publisher:     publisher,
		interval:      defaultInterval,
		sampleTimeout: defaultSampleTimeout,
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
		logger:        logger.Get().Named("poll"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes the loop until ctx is canceled or Shutdown is called.
// The first tick fires immediately so the dashboard has data at startup.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	metrics.UpdateCeiling(l.evaluator.Ceiling())

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.shutdown:
			return
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

// Shutdown gracefully stops the loop.
func (l *Loop) Shutdown(ctx context.Context) error {
	close(l.shutdown)
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		l.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// tick performs one sample-classify-record-publish pass.
func (l *Loop) tick(ctx context.Context) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordErrorByType("tick_panic", "high")
			l.logger.Error(ctx, "tick panicked; continuing on next tick", logger.Any("panic", r))
		}
		metrics.RecordTickDuration(float64(time.Since(start).Milliseconds()))
	}()

	sctx, cancel := context.WithTimeout(ctx, l.sampleTimeout)
	s, err := l.source.Sample(sctx)
	cancel()
	if err != nil {
		// Degrade to a flagged sample rather than dropping the tick or
		// fabricating a reading.
		metrics.RecordSamplerError()
		l.logger.Warn(ctx, "sampler failed; recording degraded sample", logger.Error(err))
		s = model.Degraded(time.Now(), err.Error())
	}

	a := l.evaluator.Evaluate(s)
	previous := l.currentTier
	hadPrevious := l.started
	a = l.applyDebounce(a)

	r := types.Reading{
		ID:            s.ID,
		Timestamp:     s.Timestamp,
		Consumption:   s.Consumption,
		Ceiling:       l.evaluator.Ceiling(),
		Ratio:         a.Ratio,
		Tier:          a.Tier.String(),
		Action:        a.Action,
		InferenceRate: a.InferenceRate,
		Psi:           a.Psi,
		PsiPerC:       a.PsiPerC,
		Basic:         s.Basic,
		Applied:       s.Applied,
		Creative:      s.Creative,
		Valid:         s.Valid,
		Reason:        s.Reason,
	}

	l.recorder.Append(ctx, r)
	l.publisher.Publish(ctx, r)

	metrics.RecordTick()
	metrics.UpdateConsumption(s.Consumption)
	metrics.UpdateRatio(a.Ratio)
	metrics.UpdatePsi(a.Psi)
	metrics.UpdatePsiPerWatt(a.PsiPerC)
	metrics.UpdateTierCode(a.Tier.Code())
	metrics.RecordDirective(a.Action)
	if !s.Valid {
		metrics.RecordDegradedSample()
	}
	if !hadPrevious || a.Tier != previous {
		metrics.RecordTierChange(a.Tier.String())
		l.logger.Info(ctx, "tier changed",
			logger.String("tier", a.Tier.String()),
			logger.String("action", a.Action),
			logger.Float64("ratio", a.Ratio),
		)
	}
}

// applyDebounce updates the published-tier state and, when a debounce window
// is configured, suppresses transitions that have not persisted long enough.
// The suppressed reading keeps the previous tier and directive but carries
// the fresh sample numbers.
func (l *Loop) applyDebounce(a tier.Assessment) tier.Assessment {
	if !l.started {
		l.started = true
		l.setCurrent(a)
		return a
	}

	if l.debounceTicks <= 0 || a.Tier == l.currentTier {
		l.setCurrent(a)
		l.pendingCount = 0
		return a
	}

	if a.Tier == l.pendingTier {
		l.pendingCount++
	} else {
		l.pendingTier = a.Tier
		l.pendingCount = 1
	}
	if l.pendingCount >= l.debounceTicks {
		l.pendingCount = 0
		l.setCurrent(a)
		return a
	}

	a.Tier = l.currentTier
	a.Action = l.currentAction
	a.InferenceRate = l.currentRate
	return a
}

func (l *Loop) setCurrent(a tier.Assessment) {
	l.currentTier = a.Tier
	l.currentAction = a.Action
	l.currentRate = a.InferenceRate
}
