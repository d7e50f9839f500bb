// Package service provides the core monitoring service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/snowbellsan/psiguard/internal/adapters/poll"
	"github.com/snowbellsan/psiguard/internal/adapters/repository"
	"github.com/snowbellsan/psiguard/internal/adapters/sampler"
	"github.com/snowbellsan/psiguard/internal/adapters/stream"
	"github.com/snowbellsan/psiguard/internal/domain/psi"
	"github.com/snowbellsan/psiguard/internal/domain/tier"
	"github.com/snowbellsan/psiguard/internal/domain/types"
	"github.com/snowbellsan/psiguard/pkg/logger"
	"github.com/snowbellsan/psiguard/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultCeiling          = 100.0
	defaultInterval         = 1 * time.Second
	defaultSampleTimeout    = 500 * time.Millisecond
	defaultHistorySize      = 30
	defaultSubscriberBuffer = 16
	loopShutdownTimeout     = 5 * time.Second
)

// Service owns the monitoring state: sampler, controller, history buffer,
// and broadcast. The poll loop is the single writer; the HTTP API only reads
// published snapshots or subscribes to the stream.
type Service struct {
	mu sync.RWMutex

	// Core components
	source     sampler.Source
	controller *tier.Controller
	history    *repository.History
	broadcast  *stream.Broadcast
	loop       *poll.Loop

	// Configuration
	ceiling          float64
	interval         time.Duration
	sampleTimeout    time.Duration
	historySize      int
	subscriberBuffer int
	debounceTicks    int
	weights          psi.Weights

	// State
	started  bool
	loopCtx  context.Context
	loopStop context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCeiling sets C_max.
func WithCeiling(ceiling float64) Option {
	return func(s *Service) {
		if ceiling > 0 {
			s.ceiling = ceiling
		}
	}
}

// WithInterval sets the polling period.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithSampleTimeout bounds one sampler call.
func WithSampleTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.sampleTimeout = timeout
		}
	}
}

// WithHistorySize sets the history ring buffer capacity.
func WithHistorySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.historySize = size
		}
	}
}

// WithSubscriberBuffer sets the per-subscriber stream channel buffer.
func WithSubscriberBuffer(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.subscriberBuffer = size
		}
	}
}

// WithDebounceTicks enables the optional tier-transition debounce window.
func WithDebounceTicks(ticks int) Option {
	return func(s *Service) {
		if ticks >= 0 {
			s.debounceTicks = ticks
		}
	}
}

// WithWeights sets the efficiency component weights.
func WithWeights(w psi.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithSource injects a custom metric source, e.g. real telemetry.
// The default is the synthetic simulator.
func WithSource(src sampler.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(lg logger.Logger) Option {
	return func(s *Service) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		ceiling:          defaultCeiling,
		interval:         defaultInterval,
		sampleTimeout:    defaultSampleTimeout,
		historySize:      defaultHistorySize,
		subscriberBuffer: defaultSubscriberBuffer,
		weights:          psi.DefaultWeights(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the components and launches the poll loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting monitor service...")

	scorer := psi.NewScorer(psi.WithWeights(s.weights))
	s.controller = tier.NewController(s.ceiling, tier.WithScorer(scorer))
	s.history = repository.NewHistory(repository.WithCapacity(s.historySize))
	s.broadcast = stream.NewBroadcast(stream.WithBufferSize(s.subscriberBuffer))
	if s.source == nil {
		s.source = sampler.NewSynthetic(s.ceiling)
		s.logger.Info(ctx, "using synthetic metric source")
	}

	s.loop = poll.NewLoop(s.source, s.controller, s.history, s.broadcast,
		poll.WithInterval(s.interval),
		poll.WithSampleTimeout(s.sampleTimeout),
		poll.WithDebounceTicks(s.debounceTicks),
		poll.WithLogger(s.logger.Named("poll")),
	)

	// The loop outlives the Start ctx; it stops via Stop or process shutdown.
	s.loopCtx, s.loopStop = context.WithCancel(context.WithoutCancel(ctx))
	go s.loop.Run(s.loopCtx)

	s.started = true
	s.logger.Info(ctx, "monitor service started",
		logger.Float64("ceiling", s.ceiling),
		logger.Any("interval", s.interval),
		logger.Int("historySize", s.historySize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping monitor service...")

	shutdownCtx, cancel := context.WithTimeout(ctx, loopShutdownTimeout)
	defer cancel()
	if err := s.loop.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "poll loop shutdown", logger.Error(err))
	}
	s.loopStop()

	_ = s.broadcast.Close()

	s.started = false
	s.logger.Info(ctx, "monitor service stopped")
}

// Latest returns the most recent reading.
func (s *Service) Latest(ctx context.Context) (types.Reading, error) {
	return s.history.Latest(ctx)
}

// Recent returns up to n readings ending with the newest, oldest first.
func (s *Service) Recent(ctx context.Context, n int) ([]types.Reading, error) {
	return s.history.Recent(ctx, n)
}

// Subscribe registers a stream subscriber for per-tick readings.
func (s *Service) Subscribe(ctx context.Context) (<-chan types.Reading, func(), error) {
	return s.broadcast.Subscribe(ctx)
}

// HistoryCapacity returns the configured history buffer capacity.
func (s *Service) HistoryCapacity() int {
	return s.historySize
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"ceiling":         s.ceiling,
		"intervalMs":      s.interval.Milliseconds(),
		"historyCapacity": s.historySize,
		"debounceTicks":   s.debounceTicks,
	}

	if s.started {
		stats["historyLength"] = s.history.Len(ctx)
		stats["subscribers"] = s.broadcast.SubscriberCount()
		if latest, err := s.history.Latest(ctx); err == nil {
			stats["tier"] = latest.Tier
			stats["consumption"] = latest.Consumption
			stats["ratio"] = latest.Ratio
			stats["psiPerC"] = latest.PsiPerC
		}

		metrics.UpdateHistorySize(s.history.Len(ctx))
		metrics.UpdateSubscriberCount(s.broadcast.SubscriberCount())
	}

	return stats
}
