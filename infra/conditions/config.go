// Package conditions implements the live condition providers: cloud cover
// from OpenWeatherMap, carbon intensity from Electricity Maps, combined with
// a synthetic fallback so the engine always gets a snapshot.
package conditions

import "fmt"

// Config holds the provider credentials and site location.
type Config struct {
	OpenWeatherAPIKey     string  `json:"openweather_api_key"`
	ElectricityMapsAPIKey string  `json:"electricity_maps_api_key"`
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	// Zone is the Electricity Maps grid zone, e.g. "IN-SO".
	Zone string `json:"zone"`
	// GridPrice is the site's tariff in currency/kWh. Tariffs are contractual
	// rather than sensed, so the price comes from configuration.
	GridPrice float64 `json:"grid_price"`
}

// SetDefaults applies the pilot tariff.
func (c *Config) SetDefaults() {
	if c.GridPrice == 0 {
		c.GridPrice = 6.0
	}
}

// Validate checks that live mode has the fields it needs. Empty API keys are
// allowed: the composite provider then serves synthetic data.
func (c Config) Validate() error {
	if c.ElectricityMapsAPIKey != "" && c.Zone == "" {
		return fmt.Errorf("electricity maps key set but zone missing")
	}
	if c.GridPrice < 0 {
		return fmt.Errorf("grid_price must not be negative")
	}
	return nil
}

// LiveConfigured reports whether both live feeds are usable.
func (c Config) LiveConfigured() bool {
	return c.OpenWeatherAPIKey != "" && c.ElectricityMapsAPIKey != ""
}
