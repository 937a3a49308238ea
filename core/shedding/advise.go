package shedding

import (
	"fmt"
	"math"

	"github.com/vesta-ems/vesta/core/model"
)

// Advise evaluates every registered load against the current carbon intensity
// and grid price. Critical loads are never deferred. For deferrable loads the
// carbon trigger is checked before the price trigger and the first match
// wins, so a load deferred for carbon reports no separate cost saving.
func (a *Advisor) Advise(carbonIntensity, gridPrice float64, reg *Registry) (model.SheddingSummary, error) {
	if math.IsNaN(carbonIntensity) || carbonIntensity < 0 {
		return model.SheddingSummary{}, fmt.Errorf("shedding: invalid carbon intensity %v", carbonIntensity)
	}
	if math.IsNaN(gridPrice) || gridPrice < 0 {
		return model.SheddingSummary{}, fmt.Errorf("shedding: invalid grid price %v", gridPrice)
	}

	var sum model.SheddingSummary
	for _, l := range reg.Loads() {
		d := a.decide(l, carbonIntensity, gridPrice)
		sum.Decisions = append(sum.Decisions, d)
		if d.Defer {
			sum.DeferredPowerKW += l.RatedPowerKW
			sum.CarbonSavedG += d.CarbonSavedG
		}
	}

	if sum.DeferredPowerKW > 0 {
		sum.Summary = fmt.Sprintf("Defer %.1f kW to save %.0fg CO2",
			sum.DeferredPowerKW, sum.CarbonSavedG)
	} else {
		sum.Summary = "All loads can proceed"
	}
	return sum, nil
}

func (a *Advisor) decide(l model.Load, carbonIntensity, gridPrice float64) model.LoadDecision {
	if l.Class == model.LoadCritical {
		return model.LoadDecision{Load: l, Defer: false, Reason: "critical load - cannot defer"}
	}

	if carbonIntensity > a.cfg.CarbonThreshold {
		return model.LoadDecision{
			Load:  l,
			Defer: true,
			Reason: fmt.Sprintf("high carbon intensity (%.0f gCO2eq/kWh) - defer until cleaner",
				carbonIntensity),
			CarbonSavedG: l.RatedPowerKW * (carbonIntensity - a.cfg.CleanBaseline),
		}
	}

	if gridPrice > a.cfg.PriceThreshold {
		return model.LoadDecision{
			Load:      l,
			Defer:     true,
			Reason:    fmt.Sprintf("high grid price (%.2f/kWh) - defer until cheaper", gridPrice),
			CostSaved: l.RatedPowerKW * (gridPrice - a.cfg.NormalPrice),
		}
	}

	return model.LoadDecision{Load: l, Defer: false, Reason: "good conditions - proceed with load"}
}
