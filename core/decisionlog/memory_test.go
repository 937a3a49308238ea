package decisionlog

import (
	"context"
	"testing"
	"time"

	"github.com/vesta-ems/vesta/core/model"
)

func seedStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	actions := []model.GridAction{
		model.GridActionNone,
		model.GridActionCharge,
		model.GridActionDischarge,
		model.GridActionNone,
	}
	for i, a := range actions {
		rec := model.DecisionRecord{
			ID:         string(rune('a' + i)),
			Timestamp:  base.Add(time.Duration(i) * time.Hour),
			GridAction: a,
		}
		if err := s.Append(context.Background(), rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return s
}

func TestMemoryStore_AppendOrder(t *testing.T) {
	s := seedStore(t)
	recs, err := s.Query(context.Background(), Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("got %d records, want 4", len(recs))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Timestamp.Before(recs[i-1].Timestamp) {
			t.Errorf("records out of append order at index %d", i)
		}
	}
}

func TestMemoryStore_TimeRange(t *testing.T) {
	s := seedStore(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	recs, err := s.Query(context.Background(), Query{
		Start: base.Add(time.Hour),
		End:   base.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records in range, want 2", len(recs))
	}
}

func TestMemoryStore_ActionFilter(t *testing.T) {
	s := seedStore(t)
	recs, err := s.Query(context.Background(), Query{
		GridAction: model.GridActionNone,
		ActionSet:  true,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d none-action records, want 2", len(recs))
	}

	// Without ActionSet the zero GridAction must not filter.
	recs, err = s.Query(context.Background(), Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 4 {
		t.Fatalf("implicit action filter applied: got %d records", len(recs))
	}
}

func TestMemoryStore_Limit(t *testing.T) {
	s := seedStore(t)
	recs, err := s.Query(context.Background(), Query{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records with limit 2", len(recs))
	}
}
