// Package poll drives the monitoring loop.
package poll

import (
	"time"

	"github.com/snowbellsan/psiguard/pkg/logger"
)

// Option applies a configuration option to the Loop.
type Option func(*Loop)

// WithInterval sets the polling period.
func WithInterval(interval time.Duration) Option {
	return func(l *Loop) {
		if interval > 0 {
			l.interval = interval
		}
	}
}

// WithSampleTimeout bounds how long one source call may take.
func WithSampleTimeout(timeout time.Duration) Option {
	return func(l *Loop) {
		if timeout > 0 {
			l.sampleTimeout = timeout
		}
	}
}

// WithDebounceTicks enables the optional transition debounce window.
// Zero disables it and keeps classification stateless per tick.
func WithDebounceTicks(ticks int) Option {
	return func(l *Loop) {
		if ticks >= 0 {
			l.debounceTicks = ticks
		}
	}
}

// WithLogger sets a custom logger for the loop.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loop) {
		if lg != nil {
			l.logger = lg
		}
	}
}
