package optimizer

// Discharge floors of the battery health policy, as fractions of capacity.
// The tiers are deliberately discrete rather than a smooth function so a
// given day's floor can be audited from the profit figure alone.
const (
	FloorDeep         = 0.10
	FloorModerate     = 0.25
	FloorConservative = 0.40
)

// DischargeFloor returns the minimum state of charge, as a fraction of
// capacity, the allocator may discharge down to on this tick. potentialProfit
// is what would be saved by serving the demand from battery instead of grid
// right now: demand × (gridPrice − batteryCycleCost).
func DischargeFloor(potentialProfit, degradationCost float64) float64 {
	switch {
	case potentialProfit > 2*degradationCost:
		return FloorDeep
	case potentialProfit > degradationCost:
		return FloorModerate
	default:
		return FloorConservative
	}
}
