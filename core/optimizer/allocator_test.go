package optimizer

import (
	"errors"
	"math"
	"testing"

	"github.com/vesta-ems/vesta/core/model"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewState(Config{}, nil)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	return s
}

func noonSnapshot() model.ConditionSnapshot {
	return model.ConditionSnapshot{
		Hour:            12,
		SolarIrradiance: 1000,
		CloudCoverPct:   0,
		CarbonIntensity: 450,
		GridPrice:       6.0,
	}
}

func TestAllocate_ConservesDemand(t *testing.T) {
	s := newTestState(t)
	for _, demand := range []float64{0.5, 2.0, 5.0, 12.0} {
		s.Reinitialize()
		alloc, m, err := s.Allocate(demand, noonSnapshot())
		if err != nil {
			t.Fatalf("allocate %v: %v", demand, err)
		}
		if diff := math.Abs(alloc.Total() - demand); diff > 1e-6 {
			t.Errorf("demand %v: allocated %v, diff %v", demand, alloc.Total(), diff)
		}
		if m.TotalPowerKW != demand {
			t.Errorf("demand %v: metrics reports %v", demand, m.TotalPowerKW)
		}
	}
}

func TestAllocate_SolarFirstInDaylight(t *testing.T) {
	s := newTestState(t)
	// At peak irradiance the 3 kW array fully covers 2 kW of demand.
	alloc, _, err := s.Allocate(2.0, noonSnapshot())
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if got := alloc.Share(model.SourceSolar); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("solar share = %v, want 2.0", got)
	}
	if alloc.Uses(model.SourceBattery) || alloc.Uses(model.SourceGrid) {
		t.Errorf("unexpected non-solar sources in %v", alloc)
	}
	if got := s.BatteryCharge(); got != 8.0 {
		t.Errorf("battery charge changed to %v", got)
	}
}

func TestAllocate_NoSolarAtNight(t *testing.T) {
	s := newTestState(t)
	snap := noonSnapshot()
	snap.Hour = 0
	// A nonzero irradiance reading outside the daylight window is a sensor
	// glitch and must not produce solar power.
	snap.SolarIrradiance = 500
	alloc, m, err := s.Allocate(5.0, snap)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if m.SolarAvailableKW != 0 {
		t.Errorf("solar available = %v at night", m.SolarAvailableKW)
	}
	if alloc.Uses(model.SourceSolar) {
		t.Errorf("solar allocated at night: %v", alloc)
	}
}

func TestAllocate_BatteryBeforeGridWhenCheaper(t *testing.T) {
	s := newTestState(t)
	snap := noonSnapshot()
	snap.Hour = 22 // no solar
	alloc, m, err := s.Allocate(5.0, snap)
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	// Profit 5*(6-0.1) is well past twice the degradation cost, so the deep
	// floor applies and the full 2 kW discharge rate is available.
	if m.DischargeFloor != FloorDeep {
		t.Errorf("floor = %v, want %v", m.DischargeFloor, FloorDeep)
	}
	if got := alloc.Share(model.SourceBattery); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("battery share = %v, want 2.0", got)
	}
	if got := alloc.Share(model.SourceGrid); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("grid share = %v, want 3.0", got)
	}
	if got := s.BatteryCharge(); math.Abs(got-6.0) > 1e-9 {
		t.Errorf("battery charge = %v, want 6.0", got)
	}
}

func TestAllocate_GridAbsorbsResidual(t *testing.T) {
	s := newTestState(t)
	alloc, _, err := s.Allocate(12.0, noonSnapshot())
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	want := 12.0 - 3.0 - 2.0
	if got := alloc.Share(model.SourceGrid); math.Abs(got-want) > 1e-9 {
		t.Errorf("grid share = %v, want %v", got, want)
	}
}

func TestAllocate_ZeroDemand(t *testing.T) {
	s := newTestState(t)
	alloc, _, err := s.Allocate(0, noonSnapshot())
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if len(alloc) != 0 {
		t.Errorf("expected empty allocation, got %v", alloc)
	}
}

func TestAllocate_NegativeDemand(t *testing.T) {
	s := newTestState(t)
	_, _, err := s.Allocate(-1, noonSnapshot())
	if !errors.Is(err, ErrNegativeDemand) {
		t.Fatalf("err = %v, want ErrNegativeDemand", err)
	}
	if got := s.BatteryCharge(); got != 8.0 {
		t.Errorf("battery charge mutated to %v on rejected call", got)
	}
}

func TestAllocate_CloudCoverPenalty(t *testing.T) {
	s := newTestState(t)
	clear := noonSnapshot()
	overcast := clear
	overcast.CloudCoverPct = 100

	clearAvail := s.SolarAvailable(clear)
	overcastAvail := s.SolarAvailable(overcast)
	// Full cloud cover costs at most 10% of output.
	want := clearAvail * 0.9
	if math.Abs(overcastAvail-want) > 1e-9 {
		t.Errorf("overcast available = %v, want %v", overcastAvail, want)
	}
}

func TestSolarAvailable_ClampedToCapacity(t *testing.T) {
	s := newTestState(t)
	snap := noonSnapshot()
	snap.SolarIrradiance = 1500
	if got := s.SolarAvailable(snap); got > s.Config().SolarCapacityKW {
		t.Errorf("available %v exceeds rated capacity", got)
	}
}

func TestScores_Deterministic(t *testing.T) {
	s := newTestState(t)
	a := s.scoreAll(5.0, 6.0, 450)
	b := s.scoreAll(5.0, 6.0, 450)
	for _, src := range model.Sources() {
		if a[src] != b[src] {
			t.Errorf("%s: score changed between identical calls: %v vs %v", src, a[src], b[src])
		}
	}
	// Grid: 5 kW at price 6 and carbon 450.
	if got := a[model.SourceGrid].Cost; got != 30.0 {
		t.Errorf("grid cost = %v, want 30", got)
	}
	if got := a[model.SourceGrid].CarbonG; got != 2250.0 {
		t.Errorf("grid carbon = %v, want 2250", got)
	}
	if got := a[model.SourceBattery].CarbonG; got != 1800.0 {
		t.Errorf("battery carbon = %v, want 1800", got)
	}
}

func TestMetricsTotals_OnlyUsedSources(t *testing.T) {
	s := newTestState(t)
	alloc, m, err := s.Allocate(2.0, noonSnapshot())
	if err != nil {
		t.Fatalf("allocate: %v", err)
	}
	if !alloc.Uses(model.SourceSolar) || len(alloc) != 1 {
		t.Fatalf("expected pure solar allocation, got %v", alloc)
	}
	if got := m.CostTotal; math.Abs(got-2.0*0.05) > 1e-9 {
		t.Errorf("cost total = %v, want %v", got, 2.0*0.05)
	}
	if got := m.CarbonTotalG; math.Abs(got-2.0*50) > 1e-9 {
		t.Errorf("carbon total = %v, want %v", got, 2.0*50)
	}
}
