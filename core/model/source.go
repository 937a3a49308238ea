package model

// EnergySource identifies one of the supply options the allocator can draw
// from. The set is closed: scoring tables are keyed by it and every switch
// over it must handle all three variants.
type EnergySource int

const (
	SourceGrid EnergySource = iota
	SourceSolar
	SourceBattery
)

// String returns a human-readable representation of the source.
func (s EnergySource) String() string {
	switch s {
	case SourceGrid:
		return "grid"
	case SourceSolar:
		return "solar"
	case SourceBattery:
		return "battery"
	default:
		return "unknown"
	}
}

// Sources lists every EnergySource in scoring order.
func Sources() []EnergySource {
	return []EnergySource{SourceGrid, SourceSolar, SourceBattery}
}

// SourceShare is one entry of an allocation: a source and the power drawn
// from it during the tick.
type SourceShare struct {
	Source  EnergySource `json:"source"`
	PowerKW float64      `json:"power_kw"`
}

// Allocation is the ordered list of sources actually used to serve a demand.
// The shares sum to the requested demand within floating tolerance.
type Allocation []SourceShare

// Total returns the summed power across all shares.
func (a Allocation) Total() float64 {
	var t float64
	for _, s := range a {
		t += s.PowerKW
	}
	return t
}

// Uses reports whether the allocation contains the given source.
func (a Allocation) Uses(src EnergySource) bool {
	for _, s := range a {
		if s.Source == src {
			return true
		}
	}
	return false
}

// Share returns the power drawn from the given source, 0 if unused.
func (a Allocation) Share(src EnergySource) float64 {
	for _, s := range a {
		if s.Source == src {
			return s.PowerKW
		}
	}
	return 0
}
