package model

import "time"

// GridAction is the arbitrage verdict of a tick. At most one action is taken
// per tick; the buy and sell branches are mutually exclusive.
type GridAction int

const (
	GridActionNone GridAction = iota
	GridActionCharge
	GridActionDischarge
)

// String returns a human-readable representation of the action.
func (a GridAction) String() string {
	switch a {
	case GridActionNone:
		return "none"
	case GridActionCharge:
		return "charge_from_grid"
	case GridActionDischarge:
		return "discharge_to_grid"
	default:
		return "unknown"
	}
}

// DecisionRecord captures one completed decision tick. Records are appended
// to the decision log and broadcast to observers; they are never mutated
// after creation.
type DecisionRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	// Forecast holds the predicted demand in kWh per upcoming hour,
	// most-imminent first. Forecast[0] is the demand served this tick.
	Forecast           []float64         `json:"forecast"`
	DemandKW           float64           `json:"demand_kw"`
	Snapshot           ConditionSnapshot `json:"snapshot"`
	Allocation         Allocation        `json:"allocation"`
	CostTotal          float64           `json:"cost_total"`
	CarbonTotalG       float64           `json:"carbon_total_g"`
	BatteryChargeAfter float64           `json:"battery_charge_after"`
	BatteryChargedKWh  float64           `json:"battery_charged_kwh"`
	GridAction         GridAction        `json:"grid_action"`
	// GridRevenue is signed: positive for revenue from a sale, negative for
	// the cost of an opportunistic purchase.
	GridRevenue    float64         `json:"grid_revenue"`
	Shedding       SheddingSummary `json:"shedding"`
	Recommendation string          `json:"recommendation"`
}
