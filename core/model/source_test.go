package model

import "testing"

func TestAllocationHelpers(t *testing.T) {
	a := Allocation{
		{Source: SourceSolar, PowerKW: 2.0},
		{Source: SourceGrid, PowerKW: 3.0},
	}
	if got := a.Total(); got != 5.0 {
		t.Errorf("total = %v, want 5.0", got)
	}
	if !a.Uses(SourceSolar) || !a.Uses(SourceGrid) || a.Uses(SourceBattery) {
		t.Errorf("uses reported wrong sources for %v", a)
	}
	if got := a.Share(SourceSolar); got != 2.0 {
		t.Errorf("solar share = %v", got)
	}
	if got := a.Share(SourceBattery); got != 0 {
		t.Errorf("unused source share = %v, want 0", got)
	}
}

func TestEnergySourceString(t *testing.T) {
	for src, want := range map[EnergySource]string{
		SourceGrid:    "grid",
		SourceSolar:   "solar",
		SourceBattery: "battery",
	} {
		if got := src.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", src, got, want)
		}
	}
	if got := EnergySource(99).String(); got != "unknown" {
		t.Errorf("unknown source = %q", got)
	}
}

func TestGridActionString(t *testing.T) {
	for action, want := range map[GridAction]string{
		GridActionNone:      "none",
		GridActionCharge:    "charge_from_grid",
		GridActionDischarge: "discharge_to_grid",
	} {
		if got := action.String(); got != want {
			t.Errorf("action %d = %q, want %q", action, got, want)
		}
	}
}
