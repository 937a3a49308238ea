package conditions

import (
	"context"
	"fmt"
	"time"

	coreconditions "github.com/vesta-ems/vesta/core/conditions"
	"github.com/vesta-ems/vesta/core/logger"
)

// Live assembles a snapshot from the two external feeds. Irradiance uses the
// clear-sky hourly model; attenuation by weather comes in through the live
// cloud cover, which the allocator applies as its cloud penalty.
type Live struct {
	weather *OpenWeatherClient
	carbon  *ElectricityMapsClient
	price   float64
	now     func() time.Time
}

// NewLive creates a live provider from the config. Both API keys must be
// set.
func NewLive(cfg Config) (*Live, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("conditions config: %w", err)
	}
	if !cfg.LiveConfigured() {
		return nil, fmt.Errorf("conditions: live provider requires both API keys")
	}
	return &Live{
		weather: NewOpenWeatherClient(cfg.OpenWeatherAPIKey, cfg.Latitude, cfg.Longitude),
		carbon:  NewElectricityMapsClient(cfg.ElectricityMapsAPIKey, cfg.Zone),
		price:   cfg.GridPrice,
		now:     time.Now,
	}, nil
}

// Current fetches live cloud cover and carbon intensity and tags the sample
// as "live".
func (l *Live) Current(ctx context.Context) (coreconditions.Sample, error) {
	cloud, err := l.weather.CloudCover(ctx)
	if err != nil {
		return coreconditions.Sample{}, fmt.Errorf("conditions: weather: %w", err)
	}
	carbon, err := l.carbon.CarbonIntensity(ctx)
	if err != nil {
		return coreconditions.Sample{}, fmt.Errorf("conditions: carbon: %w", err)
	}
	hour := l.now().Hour()
	snap := coreconditions.SyntheticAt(hour)
	snap.CloudCoverPct = cloud
	snap.CarbonIntensity = carbon
	snap.GridPrice = l.price
	return coreconditions.Sample{Snapshot: snap.Normalize(), Source: "live"}, nil
}

// Composite tries the primary provider and falls back to the secondary when
// it fails, preserving each provider's source tag.
type Composite struct {
	Primary  coreconditions.Provider
	Fallback coreconditions.Provider
	Log      logger.Logger
}

// Current returns the primary sample, or the fallback's after a warning.
func (c Composite) Current(ctx context.Context) (coreconditions.Sample, error) {
	sample, err := c.Primary.Current(ctx)
	if err == nil {
		return sample, nil
	}
	if c.Log != nil {
		c.Log.Warnf("primary conditions provider failed, using fallback: %v", err)
	}
	return c.Fallback.Current(ctx)
}
