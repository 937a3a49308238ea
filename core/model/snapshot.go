package model

import (
	"fmt"
	"math"
)

// ConditionSnapshot bundles the environmental and market inputs a decision
// needs. It is produced fresh each tick by a conditions provider and never
// mutated afterwards.
//
// Units: SolarIrradiance is W/m² (providers that report a 0-1 proxy fraction
// must convert at ingestion, see conditions.ProxyToIrradiance), CarbonIntensity
// is gCO2eq/kWh, GridPrice is currency/kWh.
type ConditionSnapshot struct {
	Hour            int     `json:"hour"`
	SolarIrradiance float64 `json:"solar_irradiance"`
	CloudCoverPct   float64 `json:"cloud_cover_pct"`
	CarbonIntensity float64 `json:"carbon_intensity"`
	GridPrice       float64 `json:"grid_price"`
}

// Validate rejects snapshots that are structurally unusable, such as NaN
// fields or an hour outside the day. Out-of-range but finite sensor values
// are handled by Normalize instead.
func (c ConditionSnapshot) Validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("hour %d out of range [0,23]", c.Hour)
	}
	for name, v := range map[string]float64{
		"solar_irradiance": c.SolarIrradiance,
		"cloud_cover_pct":  c.CloudCoverPct,
		"carbon_intensity": c.CarbonIntensity,
		"grid_price":       c.GridPrice,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not a finite number", name)
		}
	}
	return nil
}

// Normalize clamps glitched sensor values into their documented ranges and
// returns the cleaned snapshot. Live sensors occasionally report negative
// irradiance at dusk or cloud cover slightly above 100%.
func (c ConditionSnapshot) Normalize() ConditionSnapshot {
	if c.SolarIrradiance < 0 {
		c.SolarIrradiance = 0
	}
	if c.CloudCoverPct < 0 {
		c.CloudCoverPct = 0
	}
	if c.CloudCoverPct > 100 {
		c.CloudCoverPct = 100
	}
	if c.CarbonIntensity < 0 {
		c.CarbonIntensity = 0
	}
	if c.GridPrice < 0 {
		c.GridPrice = 0
	}
	return c
}

// Daylight reports whether the hour falls inside the production window of
// the panels. Outside it solar availability is exactly zero.
func (c ConditionSnapshot) Daylight() bool {
	return c.Hour >= 6 && c.Hour < 18
}
