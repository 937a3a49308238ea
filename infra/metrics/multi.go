package metrics

import (
	coremetrics "github.com/vesta-ems/vesta/core/metrics"
	"github.com/vesta-ems/vesta/core/model"
)

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDecision forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordDecision(rec model.DecisionRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordDecision(rec); err != nil {
			return err
		}
	}
	return nil
}
