package stream

import "errors"

// Sentinel kinds for broadcast errors.
var (
	ErrClosed = errors.New("broadcast closed")
)
