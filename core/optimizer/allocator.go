package optimizer

import (
	"errors"
	"fmt"
	"math"

	"github.com/vesta-ems/vesta/core/model"
)

// ErrNegativeDemand is returned when a caller requests a negative demand.
// Negative demand is a contract violation, not a sensor glitch, so it is
// rejected rather than clamped.
var ErrNegativeDemand = errors.New("optimizer: negative demand")

// Metrics describes how one allocation was computed.
type Metrics struct {
	TotalPowerKW       float64                      `json:"total_power_kw"`
	SolarAvailableKW   float64                      `json:"solar_available_kw"`
	BatteryAvailableKW float64                      `json:"battery_available_kw"`
	DischargeFloor     float64                      `json:"discharge_floor"`
	Scores             map[model.EnergySource]Score `json:"scores"`
	CostTotal          float64                      `json:"cost_total"`
	CarbonTotalG       float64                      `json:"carbon_total_g"`
	BatteryCharge      float64                      `json:"battery_charge"`
}

// SolarAvailable converts the snapshot's irradiance into deliverable panel
// power in kW. Output is exactly zero outside the daylight window regardless
// of the irradiance input, reduced by up to 10% at full cloud cover, and
// clamped to the array's rated capacity.
func (s *State) SolarAvailable(snap model.ConditionSnapshot) float64 {
	if !snap.Daylight() {
		return 0
	}
	snap = snap.Normalize()

	panelArea := s.cfg.SolarCapacityKW / (PeakIrradiance / 1000 * s.cfg.PanelEfficiency)
	powerKW := snap.SolarIrradiance / 1000 * panelArea * s.cfg.PanelEfficiency
	powerKW *= 1 - snap.CloudCoverPct/100*cloudPenalty

	return math.Max(0, math.Min(powerKW, s.cfg.SolarCapacityKW))
}

// BatteryAvailable returns the energy the battery may contribute this tick,
// limited by the max discharge rate and the health policy's floor.
func (s *State) BatteryAvailable(floor float64) float64 {
	avail := s.batteryCharge - s.cfg.BatteryCapacityKWh*floor
	if avail < 0 {
		avail = 0
	}
	return math.Min(s.cfg.BatteryMaxDischargeKW, avail)
}

// Allocate splits demandKW across solar, battery and grid and mutates the
// battery charge by the amount drawn. The fill order is a deliberate policy:
// solar is always taken first when physically available so generated power is
// never wasted, battery is taken only when its combined score beats grid's,
// and grid absorbs whatever remains.
func (s *State) Allocate(demandKW float64, snap model.ConditionSnapshot) (model.Allocation, Metrics, error) {
	if demandKW < 0 {
		return nil, Metrics{}, fmt.Errorf("%w: %v kW", ErrNegativeDemand, demandKW)
	}
	if err := snap.Validate(); err != nil {
		return nil, Metrics{}, fmt.Errorf("optimizer: snapshot: %w", err)
	}
	snap = snap.Normalize()

	solarAvail := s.SolarAvailable(snap)

	potentialProfit := demandKW * (snap.GridPrice - batteryCycleCost)
	floor := DischargeFloor(potentialProfit, degradationCostPerCycle)
	batteryAvail := s.BatteryAvailable(floor)

	scores := s.scoreAll(demandKW, snap.GridPrice, snap.CarbonIntensity)

	var alloc model.Allocation
	remaining := demandKW

	if solarAvail > 0 && remaining > 0 {
		used := math.Min(solarAvail, remaining)
		alloc = append(alloc, model.SourceShare{Source: model.SourceSolar, PowerKW: used})
		remaining -= used
	}

	if remaining > 0 && batteryAvail > 0 &&
		scores[model.SourceBattery].Combined < scores[model.SourceGrid].Combined {
		used := math.Min(batteryAvail, remaining)
		used = s.DrawBattery(used)
		if used > 0 {
			alloc = append(alloc, model.SourceShare{Source: model.SourceBattery, PowerKW: used})
			remaining -= used
		}
	}

	// Grid is the allocator of last resort: it never fails and absorbs all
	// residual demand.
	if remaining > 0 {
		alloc = append(alloc, model.SourceShare{Source: model.SourceGrid, PowerKW: remaining})
	}

	m := Metrics{
		TotalPowerKW:       demandKW,
		SolarAvailableKW:   solarAvail,
		BatteryAvailableKW: batteryAvail,
		DischargeFloor:     floor,
		Scores:             scores,
		BatteryCharge:      s.batteryCharge,
	}
	// Totals cover only the sources actually used, at actual power.
	for _, share := range alloc {
		m.CostTotal += s.CostScore(share.Source, share.PowerKW, snap.GridPrice)
		m.CarbonTotalG += s.CarbonScore(share.Source, share.PowerKW, snap.CarbonIntensity)
	}
	return alloc, m, nil
}

// ChargeFromSolar stores surplus panel output in the battery and returns the
// amount actually stored. Invoked by the orchestrator after allocation when
// generation exceeded the demand served by solar.
func (s *State) ChargeFromSolar(surplusKW float64) float64 {
	return s.StoreBattery(surplusKW)
}
