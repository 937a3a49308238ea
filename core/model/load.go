package model

import "fmt"

// LoadClass separates loads that must always run from loads whose operation
// can be postponed.
type LoadClass int

const (
	LoadCritical LoadClass = iota
	LoadDeferrable
)

// String returns a human-readable representation of the class.
func (c LoadClass) String() string {
	switch c {
	case LoadCritical:
		return "critical"
	case LoadDeferrable:
		return "deferrable"
	default:
		return "unknown"
	}
}

// Load is a named electrical load registered with the shedding advisor.
type Load struct {
	Name         string    `json:"name"`
	Class        LoadClass `json:"class"`
	RatedPowerKW float64   `json:"rated_power_kw"`
}

// Validate checks that the load definition is sound.
func (l Load) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("load name is required")
	}
	if l.RatedPowerKW <= 0 {
		return fmt.Errorf("load %s: rated power must be positive", l.Name)
	}
	return nil
}

// LoadDecision is the advisor's verdict for a single load on one tick.
type LoadDecision struct {
	Load         Load    `json:"load"`
	Defer        bool    `json:"defer"`
	Reason       string  `json:"reason"`
	CarbonSavedG float64 `json:"carbon_saved_g,omitempty"`
	CostSaved    float64 `json:"cost_saved,omitempty"`
}

// SheddingSummary aggregates the per-load decisions of one tick.
type SheddingSummary struct {
	Decisions       []LoadDecision `json:"decisions"`
	DeferredPowerKW float64        `json:"deferred_power_kw"`
	CarbonSavedG    float64        `json:"carbon_saved_g"`
	Summary         string         `json:"summary"`
}
