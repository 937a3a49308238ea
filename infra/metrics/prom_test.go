package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/vesta-ems/vesta/core/metrics"
	"github.com/vesta-ems/vesta/core/model"
)

func sampleRecord() model.DecisionRecord {
	return model.DecisionRecord{
		ID:       "abc",
		DemandKW: 5.0,
		Allocation: model.Allocation{
			{Source: model.SourceSolar, PowerKW: 3.0},
			{Source: model.SourceGrid, PowerKW: 2.0},
		},
		CostTotal:          12.15,
		CarbonTotalG:       900,
		BatteryChargeAfter: 6.0,
		GridAction:         model.GridActionDischarge,
		Shedding:           model.SheddingSummary{DeferredPowerKW: 6.5},
	}
}

func TestPromSink_RecordDecision(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}

	if err := sink.RecordDecision(sampleRecord()); err != nil {
		t.Fatalf("record: %v", err)
	}

	if got := testutil.ToFloat64(sink.decisions.WithLabelValues("discharge_to_grid")); got != 1 {
		t.Errorf("decisions counter = %v", got)
	}
	if got := testutil.ToFloat64(sink.allocation.WithLabelValues("solar")); got != 3.0 {
		t.Errorf("solar allocation = %v", got)
	}
	if got := testutil.ToFloat64(sink.batteryCharge); got != 6.0 {
		t.Errorf("battery gauge = %v", got)
	}
	if got := testutil.ToFloat64(sink.deferredPower); got != 6.5 {
		t.Errorf("deferred gauge = %v", got)
	}
	if got := testutil.ToFloat64(sink.cost); got != 12.15 {
		t.Errorf("cost counter = %v", got)
	}

	// Counters accumulate over ticks; gauges track the latest.
	if err := sink.RecordDecision(sampleRecord()); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := testutil.ToFloat64(sink.allocation.WithLabelValues("solar")); got != 6.0 {
		t.Errorf("solar allocation after 2 ticks = %v", got)
	}
	if got := testutil.ToFloat64(sink.batteryCharge); got != 6.0 {
		t.Errorf("battery gauge after 2 ticks = %v", got)
	}
}

func TestPromSink_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second registration not tolerated: %v", err)
	}
}

type countingSink struct{ n int }

func (c *countingSink) RecordDecision(model.DecisionRecord) error {
	c.n++
	return nil
}

type errorSink struct{}

func (errorSink) RecordDecision(model.DecisionRecord) error {
	return errors.New("sink down")
}

func TestMultiSink(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	m := NewMultiSink(a, b)
	if err := m.RecordDecision(model.DecisionRecord{}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if a.n != 1 || b.n != 1 {
		t.Errorf("sinks called %d and %d times", a.n, b.n)
	}

	m = NewMultiSink(a, errorSink{}, b)
	if err := m.RecordDecision(model.DecisionRecord{}); err == nil {
		t.Fatal("error not propagated")
	}
}
