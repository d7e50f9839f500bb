package repository

import "errors"

// Sentinel kinds for history errors.
var (
	ErrEmpty = errors.New("no readings recorded")
)
