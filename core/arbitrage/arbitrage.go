// Package arbitrage decides, before each allocation, whether to trade stored
// battery energy against the grid: selling when the price is high and the
// battery is full, buying when the price is low and the battery has room.
// Arbitrage acts on the stored energy, independent of the demand being served
// this tick.
package arbitrage

import (
	"fmt"
	"math"

	"github.com/vesta-ems/vesta/core/model"
	"github.com/vesta-ems/vesta/core/optimizer"
)

// Config defines the price bands and state-of-charge gates of the controller.
type Config struct {
	// HighPrice is the grid price above which stored energy is sold.
	HighPrice float64 `json:"high_price"`
	// LowPrice is the grid price below which grid energy is bought to top up.
	LowPrice float64 `json:"low_price"`
	// SellSoCGate is the minimum state of charge required before selling.
	SellSoCGate float64 `json:"sell_soc_gate"`
	// BuySoCGate is the maximum state of charge at which buying still makes
	// sense.
	BuySoCGate float64 `json:"buy_soc_gate"`
	// SellFloorSoC is the safety floor a sale may never discharge below.
	SellFloorSoC float64 `json:"sell_floor_soc"`
	// ChargeRateKW caps how much can be bought in one tick.
	ChargeRateKW float64 `json:"charge_rate_kw"`
}

// SetDefaults applies the pilot site's trading bands.
func (c *Config) SetDefaults() {
	if c.HighPrice == 0 {
		c.HighPrice = 8.0
	}
	if c.LowPrice == 0 {
		c.LowPrice = 4.0
	}
	if c.SellSoCGate == 0 {
		c.SellSoCGate = 0.8
	}
	if c.BuySoCGate == 0 {
		c.BuySoCGate = 0.6
	}
	if c.SellFloorSoC == 0 {
		c.SellFloorSoC = 0.5
	}
	if c.ChargeRateKW == 0 {
		c.ChargeRateKW = 2.0
	}
}

// Validate checks that the price bands cannot overlap and the gates are sane.
func (c Config) Validate() error {
	if c.LowPrice >= c.HighPrice {
		return fmt.Errorf("low_price %v must be below high_price %v", c.LowPrice, c.HighPrice)
	}
	if c.SellFloorSoC >= c.SellSoCGate {
		return fmt.Errorf("sell_floor_soc %v must be below sell_soc_gate %v", c.SellFloorSoC, c.SellSoCGate)
	}
	for name, v := range map[string]float64{
		"sell_soc_gate":  c.SellSoCGate,
		"buy_soc_gate":   c.BuySoCGate,
		"sell_floor_soc": c.SellFloorSoC,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s %v out of range [0,1]", name, v)
		}
	}
	if c.ChargeRateKW <= 0 {
		return fmt.Errorf("charge_rate_kw must be positive")
	}
	return nil
}

// Controller applies the arbitrage policy to an optimizer state.
type Controller struct {
	cfg Config
}

// NewController returns a controller for the given config.
func NewController(cfg Config) (*Controller, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("arbitrage config: %w", err)
	}
	return &Controller{cfg: cfg}, nil
}

// Config returns the controller's trading bands.
func (c *Controller) Config() Config { return c.cfg }

// Decide evaluates the battery against the current grid price and mutates the
// state when a trade is worthwhile. The returned revenue is signed: positive
// for a sale, negative for a purchase. At most one action is taken per tick;
// the two branches are mutually exclusive because the price bands do not
// overlap.
func (c *Controller) Decide(state *optimizer.State, gridPrice float64) (model.GridAction, float64) {
	soc := state.SoC()

	if gridPrice > c.cfg.HighPrice && soc > c.cfg.SellSoCGate {
		sellable := math.Min(
			state.Config().BatteryMaxDischargeKW,
			state.BatteryCharge()-state.BatteryCapacity()*c.cfg.SellFloorSoC,
		)
		if sellable > 0 {
			sold := state.DrawBattery(sellable)
			return model.GridActionDischarge, sold * gridPrice
		}
		return model.GridActionNone, 0
	}

	if gridPrice < c.cfg.LowPrice && soc < c.cfg.BuySoCGate {
		amount := math.Min(c.cfg.ChargeRateKW, state.BatteryCapacity()-state.BatteryCharge())
		if amount > 0 {
			bought := state.StoreBattery(amount)
			return model.GridActionCharge, -bought * gridPrice
		}
		return model.GridActionNone, 0
	}

	return model.GridActionNone, 0
}
