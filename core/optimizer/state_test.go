package optimizer

import "testing"

func TestNewState_InitialCharge(t *testing.T) {
	s := newTestState(t)
	if got := s.BatteryCharge(); got != 8.0 {
		t.Errorf("initial charge = %v, want 8.0", got)
	}
	if got := s.SoC(); got != 0.8 {
		t.Errorf("initial SoC = %v, want 0.8", got)
	}
}

func TestNewState_InvalidConfig(t *testing.T) {
	if _, err := NewState(Config{SolarCapacityKW: -1}, nil); err == nil {
		t.Fatal("expected error for negative solar capacity")
	}
	if _, err := NewState(Config{PanelEfficiency: 1.5}, nil); err == nil {
		t.Fatal("expected error for efficiency above 1")
	}
}

func TestDrawBattery_CappedAtStored(t *testing.T) {
	s := newTestState(t)
	if got := s.DrawBattery(20); got != 8.0 {
		t.Errorf("drawn = %v, want 8.0", got)
	}
	if got := s.BatteryCharge(); got != 0 {
		t.Errorf("charge = %v after full draw", got)
	}
	if got := s.DrawBattery(1); got != 0 {
		t.Errorf("drawn %v from empty battery", got)
	}
}

func TestStoreBattery_CappedAtHeadroom(t *testing.T) {
	s := newTestState(t)
	if got := s.StoreBattery(5); got != 2.0 {
		t.Errorf("stored = %v, want 2.0", got)
	}
	if got := s.BatteryCharge(); got != 10.0 {
		t.Errorf("charge = %v, want full capacity", got)
	}
	if got := s.StoreBattery(1); got != 0 {
		t.Errorf("stored %v into full battery", got)
	}
}

func TestDrawStore_IgnoreNonPositive(t *testing.T) {
	s := newTestState(t)
	if got := s.DrawBattery(-1); got != 0 {
		t.Errorf("negative draw returned %v", got)
	}
	if got := s.StoreBattery(0); got != 0 {
		t.Errorf("zero store returned %v", got)
	}
	if got := s.BatteryCharge(); got != 8.0 {
		t.Errorf("charge changed to %v", got)
	}
}

func TestReinitialize(t *testing.T) {
	s := newTestState(t)
	s.DrawBattery(5)
	s.Reinitialize()
	if got := s.BatteryCharge(); got != 8.0 {
		t.Errorf("charge = %v after reinitialize, want 8.0", got)
	}
}
