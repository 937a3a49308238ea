// Package decisionlog provides the persistent decision log stores: an
// append-only JSONL file and a SQLite database. The backend is selected via
// config.LoggingConfig.
package decisionlog

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"sync"

	core "github.com/vesta-ems/vesta/core/decisionlog"
	"github.com/vesta-ems/vesta/core/model"
)

// JSONLStore stores decision records in a JSONL file, one record per line.
type JSONLStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONLStore creates the file if needed and returns the store.
func NewJSONLStore(path string) (*JSONLStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	if cerr := f.Close(); cerr != nil {
		return nil, cerr
	}
	return &JSONLStore{path: path}, nil
}

// Append writes the record as one JSON line.
func (s *JSONLStore) Append(_ context.Context, rec model.DecisionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return json.NewEncoder(f).Encode(rec)
}

// Query scans the file and returns records matching q. Corrupt lines are
// skipped rather than failing the whole query.
func (s *JSONLStore) Query(_ context.Context, q core.Query) ([]model.DecisionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var res []model.DecisionRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec model.DecisionRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if !q.Matches(rec) {
			continue
		}
		res = append(res, rec)
		if q.Limit > 0 && len(res) >= q.Limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close is a no-op: the file is opened per operation.
func (s *JSONLStore) Close() error { return nil }
