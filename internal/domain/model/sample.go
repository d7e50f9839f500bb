// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Sample is one reading of the monitored system, produced once per tick.
// A Sample is immutable after construction.
type Sample struct {
	ID          string    // unique id for tracing a sample through the loop
	Timestamp   time.Time // when the sample was taken
	Consumption float64   // current resource consumption C in watts, >= 0
	Basic       float64   // basic efficiency component, in [0,1]
	Applied     float64   // applied efficiency component, in [0,1]
	Creative    float64   // creative efficiency component, in [0,1]
	Valid       bool      // false when the source was unavailable or the reading is untrusted
	Reason      string    // why the sample is degraded; empty when valid
}

// New constructs a valid Sample with a fresh id and the given readings.
func New(ts time.Time, consumption, basic, applied, creative float64) Sample {
	return Sample{
		ID:          uuid.NewString(),
		Timestamp:   ts,
		Consumption: consumption,
		Basic:       basic,
		Applied:     applied,
		Creative:    creative,
		Valid:       true,
	}
}

// Degraded constructs a flagged invalid Sample. A degraded sample carries no
// fabricated readings; consumption and components stay zero.
func Degraded(ts time.Time, reason string) Sample {
	return Sample{
		ID:        uuid.NewString(),
		Timestamp: ts,
		Valid:     false,
		Reason:    reason,
	}
}
