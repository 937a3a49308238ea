package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/vesta-ems/vesta/core/model"
)

// Battery level bands that trigger a recommendation warning.
const (
	batteryLowPct  = 20.0
	batteryHighPct = 80.0
	// demandSpikeFactor flags a significant ramp between this hour and the
	// next forecast hour.
	demandSpikeFactor = 1.2
)

// buildRecommendation concatenates the short tagged phrases that summarize a
// decision for operators: arbitrage action, load shedding, sources used,
// battery level and imminent demand spikes.
func (e *Engine) buildRecommendation(rec model.DecisionRecord) string {
	var parts []string

	switch rec.GridAction {
	case model.GridActionDischarge:
		parts = append(parts, fmt.Sprintf("Selling to grid, revenue %.2f", rec.GridRevenue))
	case model.GridActionCharge:
		parts = append(parts, fmt.Sprintf("Buying from grid at low price, cost %.2f", math.Abs(rec.GridRevenue)))
	}

	if rec.Shedding.DeferredPowerKW > 0 {
		parts = append(parts, "Load shedding: "+rec.Shedding.Summary)
	}

	if rec.Allocation.Uses(model.SourceSolar) {
		parts = append(parts, "Using solar power (cleanest option)")
	}
	if rec.Allocation.Uses(model.SourceBattery) {
		parts = append(parts, "Drawing from battery (cost-effective)")
	}
	if rec.Allocation.Uses(model.SourceGrid) {
		parts = append(parts, "Supplementing with grid power")
	}

	if len(rec.Forecast) > 1 && rec.Forecast[1] > rec.Forecast[0]*demandSpikeFactor {
		parts = append(parts, "Demand will increase significantly in next hour")
	}

	pct := rec.BatteryChargeAfter / e.state.BatteryCapacity() * 100
	if pct < batteryLowPct {
		parts = append(parts, "Battery low - consider charging during low-cost hours")
	} else if pct >= batteryHighPct {
		parts = append(parts, "Battery well charged")
	}

	return strings.Join(parts, " | ")
}
