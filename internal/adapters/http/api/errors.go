package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrUnavailable = errors.New("stream unavailable")
)

// NewKind tags a sentinel kind with the operation it occurred in.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// Wrap tags an upstream error with the operation it surfaced from.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
