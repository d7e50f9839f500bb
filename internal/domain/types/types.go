// Package types contains common types used across the application
package types

import "time"

// Reading is the flat, serializable record published once per tick for the
// presentation layer. It is the only shape the rendering side consumes, so
// the dashboard technology stays fully swappable.
type Reading struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Consumption   float64   `json:"consumption"`
	Ceiling       float64   `json:"ceiling"`
	Ratio         float64   `json:"ratio"`
	Tier          string    `json:"tier"`
	Action        string    `json:"action"`
	InferenceRate float64   `json:"inference_rate"`
	Psi           float64   `json:"psi"`
	PsiPerC       float64   `json:"psi_per_c"`
	Basic         float64   `json:"basic"`
	Applied       float64   `json:"applied"`
	Creative      float64   `json:"creative"`
	Valid         bool      `json:"valid"`
	Reason        string    `json:"reason,omitempty"`
}
