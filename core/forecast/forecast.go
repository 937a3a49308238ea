// Package forecast defines the demand forecasting boundary consumed by the
// decision engine. The trained model lives outside this repository; the
// package ships the interface, a regression baseline used when the model
// service is unreachable, and a static forecaster for tests.
package forecast

import (
	"errors"
	"time"
)

// ErrInsufficientHistory is returned when fewer readings than the lookback
// window are available. The engine must not fabricate a forecast: a tick
// without a forecast fails outright.
var ErrInsufficientHistory = errors.New("forecast: insufficient history")

// Reading is one historical demand observation.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	DemandKWh float64   `json:"demand_kwh"`
}

// Forecaster predicts demand for upcoming hours from recent history. The
// returned sequence has at least one value, in kWh per hour, most-imminent
// first.
type Forecaster interface {
	Predict(history []Reading) ([]float64, error)
}

// Static returns a fixed forecast regardless of history. Useful in tests and
// the one-shot CLI.
type Static struct {
	Values []float64
	Err    error
}

// Predict returns the configured values or error.
func (s Static) Predict([]Reading) ([]float64, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	cp := make([]float64, len(s.Values))
	copy(cp, s.Values)
	return cp, nil
}
