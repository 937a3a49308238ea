package optimizer

import "github.com/vesta-ems/vesta/core/model"

// Score carries the cost, carbon and combined figures of one source for one
// demand level.
type Score struct {
	Cost     float64 `json:"cost"`
	CarbonG  float64 `json:"carbon_g"`
	Combined float64 `json:"combined"`
}

// CostScore returns the monetary cost of serving powerKW from the source at
// the given grid price. Pure function: identical inputs yield identical
// outputs.
func (s *State) CostScore(src model.EnergySource, powerKW, gridPrice float64) float64 {
	switch src {
	case model.SourceGrid:
		return powerKW * gridPrice
	case model.SourceSolar:
		return powerKW * solarMaintenanceCost
	case model.SourceBattery:
		return powerKW * batteryCycleCost
	default:
		return 0
	}
}

// CarbonScore returns the emissions in gCO2eq of serving powerKW from the
// source at the given live grid carbon intensity. Battery carbon is a
// fraction of grid carbon, modeling imperfect knowledge of the energy's
// original source.
func (s *State) CarbonScore(src model.EnergySource, powerKW, carbonIntensity float64) float64 {
	switch src {
	case model.SourceGrid:
		return powerKW * carbonIntensity
	case model.SourceSolar:
		return powerKW * solarLifecycleCarbon
	case model.SourceBattery:
		return powerKW * carbonIntensity * batteryCarbonFraction
	default:
		return 0
	}
}

// CombinedScore folds a cost and a carbon score into one comparable scalar.
// Carbon is converted to a currency-equivalent penalty first.
func (s *State) CombinedScore(cost, carbonG float64) float64 {
	carbonCost := carbonG / 1000 * currencyPerKgCO2
	return s.cfg.CostWeight*cost + s.cfg.CarbonWeight*carbonCost
}

// scoreAll builds the scoring table for the requested demand.
func (s *State) scoreAll(demandKW, gridPrice, carbonIntensity float64) map[model.EnergySource]Score {
	scores := make(map[model.EnergySource]Score, 3)
	for _, src := range model.Sources() {
		cost := s.CostScore(src, demandKW, gridPrice)
		carbon := s.CarbonScore(src, demandKW, carbonIntensity)
		scores[src] = Score{Cost: cost, CarbonG: carbon, Combined: s.CombinedScore(cost, carbon)}
	}
	return scores
}
