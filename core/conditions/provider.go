// Package conditions defines the boundary that supplies the engine with a
// fresh ConditionSnapshot each tick. Providers tag their samples with a data
// source for observability; the tag is opaque to the engine.
package conditions

import (
	"context"

	"github.com/vesta-ems/vesta/core/model"
)

// IrradianceProxyScale converts a 0-1 solar radiation proxy into W/m². Some
// upstream feeds report the proxy fraction instead of raw irradiance; every
// provider converts at ingestion so the snapshot unit stays canonical.
const IrradianceProxyScale = 800.0

// ProxyToIrradiance converts a 0-1 proxy fraction to W/m².
func ProxyToIrradiance(proxy float64) float64 {
	if proxy < 0 {
		return 0
	}
	return proxy * IrradianceProxyScale
}

// Sample is a snapshot tagged with the provider that produced it.
type Sample struct {
	Snapshot model.ConditionSnapshot `json:"snapshot"`
	// Source names where the data came from, e.g. "live" or "synthetic".
	Source string `json:"source"`
}

// Provider returns the conditions as of now.
type Provider interface {
	Current(ctx context.Context) (Sample, error)
}
