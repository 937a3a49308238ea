// Package engine sequences one decision tick: arbitrage, allocation, solar
// surplus recharge, load shedding and recommendation assembly, ending with
// exactly one DecisionRecord appended to the log and broadcast to observers.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vesta-ems/vesta/core/arbitrage"
	"github.com/vesta-ems/vesta/core/decisionlog"
	"github.com/vesta-ems/vesta/core/forecast"
	"github.com/vesta-ems/vesta/core/logger"
	"github.com/vesta-ems/vesta/core/metrics"
	"github.com/vesta-ems/vesta/core/model"
	"github.com/vesta-ems/vesta/core/optimizer"
	"github.com/vesta-ems/vesta/core/shedding"
	"github.com/vesta-ems/vesta/internal/eventbus"
)

// Engine owns the optimizer state and serializes decision ticks. The state
// machine is single-writer: the periodic scheduler and the on-demand API
// entry point both go through the per-instance mutex, so at most one tick is
// in flight at a time.
type Engine struct {
	state      *optimizer.State
	arb        *arbitrage.Controller
	advisor    *shedding.Advisor
	registry   *shedding.Registry
	forecaster forecast.Forecaster
	store      decisionlog.Store
	sink       metrics.Sink
	bus        *eventbus.Bus[model.DecisionRecord]
	log        logger.Logger
	now        func() time.Time

	mu sync.Mutex
}

// New creates an engine. The forecaster, store and logger are required; a
// nil sink defaults to NopSink and a nil bus disables broadcasting.
func New(state *optimizer.State, arb *arbitrage.Controller, advisor *shedding.Advisor,
	registry *shedding.Registry, fc forecast.Forecaster, store decisionlog.Store,
	sink metrics.Sink, bus *eventbus.Bus[model.DecisionRecord], log logger.Logger) (*Engine, error) {
	if state == nil || arb == nil || advisor == nil || registry == nil || fc == nil || store == nil {
		return nil, fmt.Errorf("engine: nil parameter provided to New")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Engine{
		state:      state,
		arb:        arb,
		advisor:    advisor,
		registry:   registry,
		forecaster: fc,
		store:      store,
		sink:       sink,
		bus:        bus,
		log:        log,
		now:        time.Now,
	}, nil
}

// State exposes the optimizer state for inspection. Mutation outside the
// engine breaks the serialization contract.
func (e *Engine) State() *optimizer.State { return e.state }

// Registry returns the load registry so loads can be edited between ticks.
func (e *Engine) Registry() *shedding.Registry { return e.registry }

// Store returns the decision log for read-side queries.
func (e *Engine) Store() decisionlog.Store { return e.store }

// Subscribe returns a channel receiving every completed decision.
func (e *Engine) Subscribe() <-chan model.DecisionRecord {
	if e.bus == nil {
		return nil
	}
	return e.bus.Subscribe()
}

// DecideFromHistory obtains a forecast from the configured forecaster and
// runs one decision tick. A forecaster failure is fatal to the tick: no
// record is emitted and the caller's scheduler simply tries again next tick.
func (e *Engine) DecideFromHistory(ctx context.Context, history []forecast.Reading,
	snap model.ConditionSnapshot) (model.DecisionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	fc, err := e.forecaster.Predict(history)
	if err != nil {
		return model.DecisionRecord{}, fmt.Errorf("engine: forecast: %w", err)
	}
	return e.decideLocked(ctx, fc, snap)
}

// Decide runs one decision tick with an externally supplied forecast
// sequence, most-imminent hour first.
func (e *Engine) Decide(ctx context.Context, forecastNextHours []float64,
	snap model.ConditionSnapshot) (model.DecisionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decideLocked(ctx, forecastNextHours, snap)
}

// decideLocked runs the tick body. Callers hold e.mu. The tick runs to
// completion or fails entirely: nothing is published on error.
func (e *Engine) decideLocked(ctx context.Context, fc []float64,
	snap model.ConditionSnapshot) (model.DecisionRecord, error) {
	if len(fc) == 0 {
		return model.DecisionRecord{}, fmt.Errorf("engine: empty forecast sequence")
	}
	if err := snap.Validate(); err != nil {
		return model.DecisionRecord{}, fmt.Errorf("engine: snapshot: %w", err)
	}
	snap = snap.Normalize()

	// All inputs are checked before anything touches the battery so a
	// rejected tick leaves no half-applied trade behind.
	demand := fc[0]
	if demand < 0 {
		return model.DecisionRecord{}, fmt.Errorf("engine: demand: %w: %v kW",
			optimizer.ErrNegativeDemand, demand)
	}

	// Arbitrage first: it trades on the stored energy, independent of the
	// demand served this tick.
	action, revenue := e.arb.Decide(e.state, snap.GridPrice)

	alloc, m, err := e.state.Allocate(demand, snap)
	if err != nil {
		return model.DecisionRecord{}, fmt.Errorf("engine: allocate: %w", err)
	}

	var charged float64
	if surplus := m.SolarAvailableKW - alloc.Share(model.SourceSolar); surplus > 0 {
		charged = e.state.ChargeFromSolar(surplus)
	}

	shed, err := e.advisor.Advise(snap.CarbonIntensity, snap.GridPrice, e.registry)
	if err != nil {
		return model.DecisionRecord{}, fmt.Errorf("engine: shedding: %w", err)
	}

	rec := model.DecisionRecord{
		ID:                 uuid.NewString(),
		Timestamp:          e.now(),
		Forecast:           fc,
		DemandKW:           demand,
		Snapshot:           snap,
		Allocation:         alloc,
		CostTotal:          m.CostTotal,
		CarbonTotalG:       m.CarbonTotalG,
		BatteryChargeAfter: e.state.BatteryCharge(),
		BatteryChargedKWh:  charged,
		GridAction:         action,
		GridRevenue:        revenue,
		Shedding:           shed,
	}
	rec.Recommendation = e.buildRecommendation(rec)

	if err := e.store.Append(ctx, rec); err != nil {
		e.log.Warnf("decision %s dropped, battery now %.2f kWh with no record of how: %v",
			rec.ID, rec.BatteryChargeAfter, err)
		return model.DecisionRecord{}, fmt.Errorf("engine: append decision: %w", err)
	}
	if err := e.sink.RecordDecision(rec); err != nil {
		e.log.Warnf("decision metrics: %v", err)
	}
	if e.bus != nil {
		e.bus.Publish(rec)
	}

	e.log.Debugw("decision tick", map[string]any{
		"id":          rec.ID,
		"demand_kw":   rec.DemandKW,
		"grid_action": rec.GridAction.String(),
		"battery_kwh": rec.BatteryChargeAfter,
	})
	return rec, nil
}

// Close releases the broadcast bus and the decision store.
func (e *Engine) Close() error {
	if e.bus != nil {
		e.bus.Close()
	}
	return e.store.Close()
}
