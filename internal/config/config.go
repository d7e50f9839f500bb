// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, optional YAML file, and environment variables.
// - Validation fails fast: a bad ceiling or interval stops startup, it is
//   never silently defaulted.
package config

import (
	"fmt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// CeilingWatts is C_max, the maximum sustainable resource cost.
	CeilingWatts float64 `koanf:"ceiling_watts"`

	// PollIntervalMS sets the monitoring tick period in milliseconds.
	PollIntervalMS int `koanf:"poll_interval_ms"`

	// SampleTimeoutMS bounds one sampler call in milliseconds.
	SampleTimeoutMS int `koanf:"sample_timeout_ms"`

	// HistorySize bounds the reading history ring buffer.
	HistorySize int `koanf:"history_size"`

	// SubscriberBuffer sets the per-subscriber stream channel buffer.
	SubscriberBuffer int `koanf:"subscriber_buffer"`

	// DebounceTicks enables the optional tier-transition debounce window.
	// Zero keeps classification stateless per tick.
	DebounceTicks int `koanf:"debounce_ticks"`

	// Component weights for the combined efficiency score.
	WeightBasic    float64 `koanf:"weight_basic"`
	WeightApplied  float64 `koanf:"weight_applied"`
	WeightCreative float64 `koanf:"weight_creative"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9090",
		CeilingWatts:     100.0,
		PollIntervalMS:   1000,
		SampleTimeoutMS:  500,
		HistorySize:      30,
		SubscriberBuffer: 16,
		DebounceTicks:    0,
		WeightBasic:      1.0 / 3,
		WeightApplied:    1.0 / 3,
		WeightCreative:   1.0 / 3,
	}
}

// Validate checks the configuration, wrapping every failure in
// ErrInvalidConfig for errors.Is checks.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CeilingWatts <= 0:
		return fmt.Errorf("%w: ceiling_watts must be positive, got %g", ErrInvalidConfig, c.CeilingWatts)
	case c.PollIntervalMS <= 0:
		return fmt.Errorf("%w: poll_interval_ms must be positive, got %d", ErrInvalidConfig, c.PollIntervalMS)
	case c.SampleTimeoutMS <= 0:
		return fmt.Errorf("%w: sample_timeout_ms must be positive, got %d", ErrInvalidConfig, c.SampleTimeoutMS)
	case c.HistorySize < 1:
		return fmt.Errorf("%w: history_size must be at least 1, got %d", ErrInvalidConfig, c.HistorySize)
	case c.SubscriberBuffer < 1:
		return fmt.Errorf("%w: subscriber_buffer must be at least 1, got %d", ErrInvalidConfig, c.SubscriberBuffer)
	case c.DebounceTicks < 0:
		return fmt.Errorf("%w: debounce_ticks must not be negative, got %d", ErrInvalidConfig, c.DebounceTicks)
	case c.WeightBasic < 0 || c.WeightApplied < 0 || c.WeightCreative < 0:
		return fmt.Errorf("%w: component weights must not be negative", ErrInvalidConfig)
	case c.WeightBasic+c.WeightApplied+c.WeightCreative <= 0:
		return fmt.Errorf("%w: at least one component weight must be positive", ErrInvalidConfig)
	}
	return nil
}
