package decisionlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	core "github.com/vesta-ems/vesta/core/decisionlog"
	"github.com/vesta-ems/vesta/core/model"
)

func sampleRecord(id string, ts time.Time, action model.GridAction) model.DecisionRecord {
	return model.DecisionRecord{
		ID:         id,
		Timestamp:  ts,
		Forecast:   []float64{5.0, 5.5},
		DemandKW:   5.0,
		Snapshot:   model.ConditionSnapshot{Hour: ts.Hour(), CarbonIntensity: 450, GridPrice: 6},
		Allocation: model.Allocation{{Source: model.SourceGrid, PowerKW: 5.0}},
		GridAction: action,
	}
}

func storeUnderTest(t *testing.T, name string) core.Store {
	t.Helper()
	dir := t.TempDir()
	switch name {
	case "jsonl":
		s, err := NewJSONLStore(filepath.Join(dir, "decisions.jsonl"))
		if err != nil {
			t.Fatalf("jsonl store: %v", err)
		}
		return s
	case "sqlite":
		s, err := NewSQLiteStore(filepath.Join(dir, "decisions.db"))
		if err != nil {
			t.Fatalf("sqlite store: %v", err)
		}
		return s
	default:
		t.Fatalf("unknown store %s", name)
		return nil
	}
}

func TestStores_AppendAndQuery(t *testing.T) {
	for _, backend := range []string{"jsonl", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			s := storeUnderTest(t, backend)
			defer func() { _ = s.Close() }()

			base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			actions := []model.GridAction{
				model.GridActionNone,
				model.GridActionCharge,
				model.GridActionDischarge,
			}
			for i, a := range actions {
				rec := sampleRecord(string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour), a)
				if err := s.Append(context.Background(), rec); err != nil {
					t.Fatalf("append %d: %v", i, err)
				}
			}

			all, err := s.Query(context.Background(), core.Query{})
			if err != nil {
				t.Fatalf("query all: %v", err)
			}
			if len(all) != 3 {
				t.Fatalf("got %d records, want 3", len(all))
			}
			if all[0].DemandKW != 5.0 || !all[0].Allocation.Uses(model.SourceGrid) {
				t.Errorf("record did not round-trip: %+v", all[0])
			}

			charged, err := s.Query(context.Background(), core.Query{
				GridAction: model.GridActionCharge,
				ActionSet:  true,
			})
			if err != nil {
				t.Fatalf("query filter: %v", err)
			}
			if len(charged) != 1 || charged[0].ID != "b" {
				t.Fatalf("action filter returned %+v", charged)
			}

			limited, err := s.Query(context.Background(), core.Query{Limit: 2})
			if err != nil {
				t.Fatalf("query limit: %v", err)
			}
			if len(limited) != 2 {
				t.Fatalf("limit 2 returned %d records", len(limited))
			}

			ranged, err := s.Query(context.Background(), core.Query{
				Start: base.Add(time.Hour),
				End:   base.Add(2 * time.Hour),
			})
			if err != nil {
				t.Fatalf("query range: %v", err)
			}
			if len(ranged) != 2 {
				t.Fatalf("range returned %d records, want 2", len(ranged))
			}
		})
	}
}

func TestJSONLStore_SkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decisions.jsonl")
	s, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	rec := sampleRecord("a", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), model.GridActionNone)
	if err := s.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("{not json\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = f.Close()
	if err := s.Append(context.Background(), sampleRecord("b", time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC), model.GridActionNone)); err != nil {
		t.Fatalf("append: %v", err)
	}

	recs, err := s.Query(context.Background(), core.Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records around the corrupt line, want 2", len(recs))
	}
}

func TestJSONLStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decisions.jsonl")
	s, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	rec := sampleRecord("a", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), model.GridActionNone)
	if err := s.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = s.Close()

	again, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	recs, err := again.Query(context.Background(), core.Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "a" {
		t.Fatalf("reopened store returned %+v", recs)
	}
}

func TestSQLiteStore_DuplicateIDRejected(t *testing.T) {
	s := storeUnderTest(t, "sqlite")
	defer func() { _ = s.Close() }()
	rec := sampleRecord("a", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), model.GridActionNone)
	if err := s.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(context.Background(), rec); err == nil {
		t.Fatal("duplicate ID accepted")
	}
}
