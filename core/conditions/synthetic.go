package conditions

import (
	"context"
	"math"
	"time"

	"github.com/vesta-ems/vesta/core/model"
)

// Synthetic produces plausible per-hour defaults when no live feed is
// configured. Irradiance follows a sine over the daylight window; carbon and
// price follow the typical daily curve of the pilot grid.
type Synthetic struct {
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// Current returns the synthetic conditions for the current hour.
func (s Synthetic) Current(_ context.Context) (Sample, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	hour := now().Hour()
	return Sample{Snapshot: SyntheticAt(hour), Source: "synthetic"}, nil
}

// SyntheticAt returns the default snapshot for the given hour.
func SyntheticAt(hour int) model.ConditionSnapshot {
	snap := model.ConditionSnapshot{
		Hour:            hour,
		CloudCoverPct:   20,
		CarbonIntensity: 450,
		GridPrice:       6.0,
	}
	if hour >= 6 && hour < 18 {
		// Peak at solar noon, zero at the window edges.
		phase := float64(hour-6) / 12 * math.Pi
		snap.SolarIrradiance = 900 * math.Sin(phase)
	}
	// Evening peak: dirtier and pricier grid.
	if hour >= 18 && hour <= 22 {
		snap.CarbonIntensity = 650
		snap.GridPrice = 8.5
	}
	// Night valley: cheap off-peak power.
	if hour >= 0 && hour < 5 {
		snap.CarbonIntensity = 380
		snap.GridPrice = 3.5
	}
	return snap
}

// SyntheticDemandAt returns the default building demand in kWh for the given
// hour, with a morning ramp and an evening peak. Used to seed the forecast
// history before real telemetry has accumulated.
func SyntheticDemandAt(hour int) float64 {
	switch {
	case hour >= 7 && hour < 9:
		return 2.8
	case hour >= 9 && hour < 17:
		return 2.0
	case hour >= 17 && hour < 22:
		return 3.5
	default:
		return 1.0
	}
}
