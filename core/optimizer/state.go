package optimizer

import (
	"fmt"

	"github.com/vesta-ems/vesta/core/logger"
)

// State holds the optimizer's persistent battery state. It is created once
// per session and mutated in place by every allocation and arbitrage call.
// It carries no internal locking: at most one decision tick may be in flight
// per State instance, and callers must serialize access.
type State struct {
	cfg           Config
	batteryCharge float64
	log           logger.Logger
}

// NewState creates an optimizer state with the battery initialized to the
// configured fraction of capacity.
func NewState(cfg Config, log logger.Logger) (*State, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("optimizer config: %w", err)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &State{
		cfg:           cfg,
		batteryCharge: cfg.BatteryCapacityKWh * cfg.InitialChargeFraction,
		log:           log,
	}, nil
}

// Config returns the installation parameters.
func (s *State) Config() Config { return s.cfg }

// BatteryCharge returns the current stored energy in kWh.
func (s *State) BatteryCharge() float64 { return s.batteryCharge }

// BatteryCapacity returns the usable capacity in kWh.
func (s *State) BatteryCapacity() float64 { return s.cfg.BatteryCapacityKWh }

// SoC returns the state of charge as a fraction of capacity.
func (s *State) SoC() float64 { return s.batteryCharge / s.cfg.BatteryCapacityKWh }

// Reinitialize resets the battery to the configured initial fraction. It is
// the only way to reset the state outside of normal operation.
func (s *State) Reinitialize() {
	s.batteryCharge = s.cfg.BatteryCapacityKWh * s.cfg.InitialChargeFraction
}

// DrawBattery removes up to kwh from the battery and returns the amount
// actually drawn. The request is capped at the stored energy so the charge
// can never go negative.
func (s *State) DrawBattery(kwh float64) float64 {
	if kwh <= 0 {
		return 0
	}
	if kwh > s.batteryCharge {
		kwh = s.batteryCharge
	}
	s.batteryCharge -= kwh
	s.clampCharge()
	return kwh
}

// StoreBattery adds up to kwh to the battery and returns the amount actually
// stored, capped at the remaining headroom to capacity.
func (s *State) StoreBattery(kwh float64) float64 {
	if kwh <= 0 {
		return 0
	}
	headroom := s.cfg.BatteryCapacityKWh - s.batteryCharge
	if kwh > headroom {
		kwh = headroom
	}
	s.batteryCharge += kwh
	s.clampCharge()
	return kwh
}

// clampCharge guards against numerical drift pushing the charge outside
// [0, capacity]. This is a recoverable edge case, not a logic error, so it
// warns instead of failing.
func (s *State) clampCharge() {
	if s.batteryCharge < 0 {
		s.log.Warnf("battery charge %.4f kWh below zero, clamping", s.batteryCharge)
		s.batteryCharge = 0
	}
	if s.batteryCharge > s.cfg.BatteryCapacityKWh {
		s.log.Warnf("battery charge %.4f kWh above capacity %.2f, clamping",
			s.batteryCharge, s.cfg.BatteryCapacityKWh)
		s.batteryCharge = s.cfg.BatteryCapacityKWh
	}
}
