// Package tier classifies a sample against the consumption ceiling and
// emits the control directive for the resulting tier.
//
// Classification is stateless: every tick recomputes the tier from the
// current C/C_max ratio alone. Tiers carry no mutable state of their own.
package tier

// Band boundaries on r = C/C_max. Each band is inclusive on its lower bound,
// so r == 0.9 is already Warning and r == 1.2 is already Emergency.
const (
	WarningRatio   = 0.9
	ThrottleRatio  = 1.0
	EmergencyRatio = 1.2
)

// Tier is the discrete control state derived from the consumption ratio.
type Tier int

const (
	Nominal Tier = iota
	Warning
	Throttled
	Emergency
)

// Degraded marks a non-classifiable (invalid) sample. It is deliberately
// distinct from Nominal so an unavailable source never reads as healthy.
const Degraded Tier = -1

// String returns the wire name of the tier.
func (t Tier) String() string {
	switch t {
	case Nominal:
		return "NOMINAL"
	case Warning:
		return "WARNING"
	case Throttled:
		return "THROTTLED"
	case Emergency:
		return "EMERGENCY"
	case Degraded:
		return "DEGRADED"
	default:
		return "UNKNOWN"
	}
}

// Code returns the numeric tier code used for the metrics gauge.
func (t Tier) Code() int {
	return int(t)
}

// Classify maps a consumption ratio to its tier. Bands are checked from the
// highest down so inclusive lower bounds resolve to the higher tier.
func Classify(ratio float64) Tier {
	switch {
	case ratio >= EmergencyRatio:
		return Emergency
	case ratio >= ThrottleRatio:
		return Throttled
	case ratio >= WarningRatio:
		return Warning
	default:
		return Nominal
	}
}
