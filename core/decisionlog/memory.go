package decisionlog

import (
	"context"
	"sync"

	"github.com/vesta-ems/vesta/core/model"
)

// MemoryStore keeps the decision log in memory. It is append-only: records
// are never mutated or truncated by this component.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []model.DecisionRecord
}

// NewMemoryStore creates an empty in-memory log.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Append adds the record to the log.
func (s *MemoryStore) Append(_ context.Context, rec model.DecisionRecord) error {
	s.mu.Lock()
	s.recs = append(s.recs, rec)
	s.mu.Unlock()
	return nil
}

// Query returns the records matching q, in append order.
func (s *MemoryStore) Query(_ context.Context, q Query) ([]model.DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.DecisionRecord
	for _, rec := range s.recs {
		if !q.Matches(rec) {
			continue
		}
		out = append(out, rec)
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
	}
	return out, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
