// Package shedding classifies registered electrical loads as critical or
// deferrable and recommends postponing deferrable loads when grid carbon
// intensity or price exceeds configured thresholds.
package shedding

import "fmt"

// Config defines the advisor's thresholds and baselines.
type Config struct {
	// CarbonThreshold is the carbon intensity in gCO2eq/kWh above which
	// deferrable loads are postponed.
	CarbonThreshold float64 `json:"carbon_threshold"`
	// PriceThreshold is the grid price above which deferrable loads are
	// postponed.
	PriceThreshold float64 `json:"price_threshold"`
	// CleanBaseline is the carbon intensity a deferred load is assumed to
	// run at later, used to estimate savings.
	CleanBaseline float64 `json:"clean_baseline"`
	// NormalPrice is the reference price used to estimate cost savings.
	NormalPrice float64 `json:"normal_price"`
}

// SetDefaults applies the pilot thresholds.
func (c *Config) SetDefaults() {
	if c.CarbonThreshold == 0 {
		c.CarbonThreshold = 700
	}
	if c.PriceThreshold == 0 {
		c.PriceThreshold = 8.0
	}
	if c.CleanBaseline == 0 {
		c.CleanBaseline = 400
	}
	if c.NormalPrice == 0 {
		c.NormalPrice = 5.0
	}
}

// Validate checks threshold ordering.
func (c Config) Validate() error {
	if c.CarbonThreshold <= 0 || c.PriceThreshold <= 0 {
		return fmt.Errorf("thresholds must be positive")
	}
	if c.CleanBaseline >= c.CarbonThreshold {
		return fmt.Errorf("clean_baseline %v must be below carbon_threshold %v",
			c.CleanBaseline, c.CarbonThreshold)
	}
	return nil
}

// Advisor produces per-load shedding decisions.
type Advisor struct {
	cfg Config
}

// NewAdvisor returns an advisor for the given config.
func NewAdvisor(cfg Config) (*Advisor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("shedding config: %w", err)
	}
	return &Advisor{cfg: cfg}, nil
}

// Config returns the advisor thresholds.
func (a *Advisor) Config() Config { return a.cfg }
