package sampler

import "errors"

// Sentinel kinds for sampler errors.
var (
	ErrUnavailable = errors.New("metric source unavailable")
)
