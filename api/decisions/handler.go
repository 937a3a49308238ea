package decisions

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vesta-ems/vesta/core/decisionlog"
	"github.com/vesta-ems/vesta/core/model"
)

// Decider triggers an immediate decision cycle.
type Decider interface {
	DecideNow(ctx context.Context) (model.DecisionRecord, error)
}

// NewLogHandler returns an HTTP handler exposing decision records via
// GET /api/decisions. Supported query parameters: start and end (RFC3339),
// grid_action (none, charge_from_grid, discharge_to_grid) and limit.
func NewLogHandler(store decisionlog.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := decisionlog.Query{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		if s := r.URL.Query().Get("grid_action"); s != "" {
			if a, ok := actionFromString(s); ok {
				q.GridAction = a
				q.ActionSet = true
			}
		}
		if s := r.URL.Query().Get("limit"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				q.Limit = n
			}
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewDecideHandler returns an HTTP handler triggering an immediate decision
// cycle via POST /api/decide. The resulting record is returned as JSON.
func NewDecideHandler(d Decider) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rec, err := d.DecideNow(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rec); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

func actionFromString(s string) (model.GridAction, bool) {
	switch s {
	case "none":
		return model.GridActionNone, true
	case "charge_from_grid":
		return model.GridActionCharge, true
	case "discharge_to_grid":
		return model.GridActionDischarge, true
	default:
		return 0, false
	}
}
