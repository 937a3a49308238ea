package forecast

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// RegressionForecaster is the production fallback predictor: an hourly
// profile blended with a linear trend fitted over the lookback window. It
// mirrors the lookback and horizon of the external demand model so the two
// are interchangeable behind the Forecaster interface.
type RegressionForecaster struct {
	// LookbackHours is the minimum history required, default 24.
	LookbackHours int
	// HorizonHours is the number of future hours predicted, default 6.
	HorizonHours int
	// TrendWeight blends the fitted linear trend into the hourly profile.
	TrendWeight float64
}

// NewRegressionForecaster returns a forecaster with the standard 24 h
// lookback and 6 h horizon.
func NewRegressionForecaster() *RegressionForecaster {
	return &RegressionForecaster{LookbackHours: 24, HorizonHours: 6, TrendWeight: 0.3}
}

// Predict fits the lookback window and returns HorizonHours demand values.
// It fails with ErrInsufficientHistory when the window is not filled.
func (f *RegressionForecaster) Predict(history []Reading) ([]float64, error) {
	lookback := f.LookbackHours
	if lookback <= 0 {
		lookback = 24
	}
	horizon := f.HorizonHours
	if horizon <= 0 {
		horizon = 6
	}
	if len(history) < lookback {
		return nil, fmt.Errorf("%w: have %d readings, need %d",
			ErrInsufficientHistory, len(history), lookback)
	}
	window := history[len(history)-lookback:]

	xs := make([]float64, len(window))
	ys := make([]float64, len(window))
	for i, r := range window {
		xs[i] = float64(i)
		ys[i] = r.DemandKWh
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	// Demand at the same hour yesterday is the best naive predictor for a
	// building; the fitted trend nudges it toward the recent direction.
	// Windows shorter than a day wrap over whatever history there is.
	dayAgo := len(window) - 24
	out := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		var profile float64
		if dayAgo >= 0 {
			profile = window[dayAgo+h%24].DemandKWh
		} else {
			profile = window[(len(window)+h)%len(window)].DemandKWh
		}
		trend := alpha + beta*float64(len(window)+h)
		v := (1-f.TrendWeight)*profile + f.TrendWeight*trend
		if v < 0 {
			v = 0
		}
		out[h] = v
	}
	return out, nil
}

// MeanDemand returns the average demand across the given history. Exposed for
// reporting; uses the same statistics backend as Predict.
func MeanDemand(history []Reading) float64 {
	if len(history) == 0 {
		return 0
	}
	ys := make([]float64, len(history))
	for i, r := range history {
		ys[i] = r.DemandKWh
	}
	return stat.Mean(ys, nil)
}
