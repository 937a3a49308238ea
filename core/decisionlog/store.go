// Package decisionlog defines persistence for decision records. The engine
// appends exactly one record per completed tick, in tick order; retention is
// the store's concern, never the engine's.
package decisionlog

import (
	"context"
	"time"

	"github.com/vesta-ems/vesta/core/model"
)

// Query defines filters for retrieving records.
type Query struct {
	Start      time.Time
	End        time.Time
	GridAction model.GridAction
	// ActionSet indicates GridAction is an actual filter rather than the
	// zero value.
	ActionSet bool
	// Limit caps the number of returned records, 0 for no cap.
	Limit int
}

// Matches reports whether the record passes the query filters.
func (q Query) Matches(rec model.DecisionRecord) bool {
	if !q.Start.IsZero() && rec.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && rec.Timestamp.After(q.End) {
		return false
	}
	if q.ActionSet && rec.GridAction != q.GridAction {
		return false
	}
	return true
}

// Store persists decision records and supports querying.
type Store interface {
	Append(ctx context.Context, rec model.DecisionRecord) error
	Query(ctx context.Context, q Query) ([]model.DecisionRecord, error)
	Close() error
}
