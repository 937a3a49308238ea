// Package metrics defines the sinks that record decision telemetry. Sinks
// like PromSink and InfluxSink live under infra/metrics and can be combined
// with a MultiSink when several backends are configured.
package metrics

import "github.com/vesta-ems/vesta/core/model"

// Sink records completed decisions for observability purposes. Recording is
// best-effort: a sink error never fails the tick that produced the record.
type Sink interface {
	RecordDecision(rec model.DecisionRecord) error
}

// NopSink discards all records.
type NopSink struct{}

// RecordDecision implements Sink.
func (NopSink) RecordDecision(model.DecisionRecord) error { return nil }
