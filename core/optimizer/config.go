package optimizer

import "fmt"

// Default operating constants of the installation. The cost constants are in
// abstract currency per kWh, carbon in gCO2eq per kWh.
const (
	// PeakIrradiance is the reference irradiance in W/m² at which panels
	// produce their rated capacity.
	PeakIrradiance = 1000.0

	// DefaultPanelEfficiency is the electrical conversion efficiency of the
	// installed panels.
	DefaultPanelEfficiency = 0.20

	// batteryCycleCost is the wear cost of cycling one kWh through the
	// battery.
	batteryCycleCost = 0.10
	// solarMaintenanceCost is the amortized upkeep cost per kWh of solar.
	solarMaintenanceCost = 0.05
	// degradationCostPerCycle is the monetary value of one full battery
	// cycle's worth of wear, used by the discharge floor policy.
	degradationCostPerCycle = 5.0

	// solarLifecycleCarbon is the fixed lifecycle carbon of panel output.
	solarLifecycleCarbon = 50.0
	// batteryCarbonFraction discounts grid carbon for stored energy, since
	// the original charge source of the battery is not fully known.
	batteryCarbonFraction = 0.8

	// currencyPerKgCO2 converts a carbon score into a currency-equivalent
	// penalty so cost and carbon are comparable in one scalar.
	currencyPerKgCO2 = 10.0

	// cloudPenalty is the maximum fractional output loss at 100% cloud
	// cover.
	cloudPenalty = 0.1
)

// Config defines the installation parameters and objective weights of the
// optimizer.
type Config struct {
	CostWeight   float64 `json:"cost_weight"`
	CarbonWeight float64 `json:"carbon_weight"`
	// SolarCapacityKW is the rated peak output of the panel array.
	SolarCapacityKW float64 `json:"solar_capacity_kw"`
	// BatteryCapacityKWh is the usable battery capacity.
	BatteryCapacityKWh float64 `json:"battery_capacity_kwh"`
	// BatteryMaxDischargeKW limits battery draw within a single tick.
	BatteryMaxDischargeKW float64 `json:"battery_max_discharge_kw"`
	PanelEfficiency       float64 `json:"panel_efficiency"`
	// InitialChargeFraction sets the battery state of charge at session
	// start.
	InitialChargeFraction float64 `json:"initial_charge_fraction"`
}

// SetDefaults applies the reference installation from the project's pilot
// site: a 3 kW array with a 10 kWh battery.
func (c *Config) SetDefaults() {
	if c.CostWeight == 0 && c.CarbonWeight == 0 {
		c.CostWeight = 0.5
		c.CarbonWeight = 0.5
	}
	if c.SolarCapacityKW == 0 {
		c.SolarCapacityKW = 3.0
	}
	if c.BatteryCapacityKWh == 0 {
		c.BatteryCapacityKWh = 10.0
	}
	if c.BatteryMaxDischargeKW == 0 {
		c.BatteryMaxDischargeKW = 2.0
	}
	if c.PanelEfficiency == 0 {
		c.PanelEfficiency = DefaultPanelEfficiency
	}
	if c.InitialChargeFraction == 0 {
		c.InitialChargeFraction = 0.8
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.CostWeight < 0 || c.CostWeight > 1 {
		return fmt.Errorf("cost_weight %v out of range [0,1]", c.CostWeight)
	}
	if c.CarbonWeight < 0 || c.CarbonWeight > 1 {
		return fmt.Errorf("carbon_weight %v out of range [0,1]", c.CarbonWeight)
	}
	if c.SolarCapacityKW <= 0 {
		return fmt.Errorf("solar_capacity_kw must be positive")
	}
	if c.BatteryCapacityKWh <= 0 {
		return fmt.Errorf("battery_capacity_kwh must be positive")
	}
	if c.BatteryMaxDischargeKW <= 0 {
		return fmt.Errorf("battery_max_discharge_kw must be positive")
	}
	if c.PanelEfficiency <= 0 || c.PanelEfficiency > 1 {
		return fmt.Errorf("panel_efficiency %v out of range (0,1]", c.PanelEfficiency)
	}
	if c.InitialChargeFraction < 0 || c.InitialChargeFraction > 1 {
		return fmt.Errorf("initial_charge_fraction %v out of range [0,1]", c.InitialChargeFraction)
	}
	return nil
}
