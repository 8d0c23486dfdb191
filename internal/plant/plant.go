// Package plant models the simulated thermal environment: a bounded
// temperature adjustment per step with actuator saturation and a
// dead-band around zero output.
package plant

import (
	"math"
	"time"

	"github.com/san-kum/fuzzytherm/internal/fuzzy"
)

// deadBand is the crisp-output magnitude below which no actuation occurs.
const deadBand = 0.01

// Plant converts a crisp controller output into a temperature change
// and an actuation label. SkewRate is the delay before an adjustment is
// observable; it paces the caller's step cadence, the plant itself
// never blocks.
type Plant struct {
	StepSize     float64
	MaxMagnitude float64
	SkewRate     time.Duration
}

func New() *Plant {
	return &Plant{
		StepSize:     3,
		MaxMagnitude: 100,
		SkewRate:     2 * time.Second,
	}
}

// Apply computes the next environment temperature for a crisp output.
// The output magnitude is normalized against MaxMagnitude and clamped
// to 1, so the applied change saturates at StepSize. Pure function of
// its inputs.
func (p *Plant) Apply(envTemp, crisp float64) (float64, fuzzy.Action) {
	scale := math.Min(math.Abs(crisp)/p.MaxMagnitude, 1)
	change := round2(p.StepSize * scale)

	switch {
	case math.Abs(crisp) < deadBand || change < deadBand:
		return round2(envTemp), fuzzy.NoChange
	case crisp > 0:
		return round2(envTemp + change), fuzzy.Heater
	default:
		return round2(envTemp - change), fuzzy.Cooler
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
