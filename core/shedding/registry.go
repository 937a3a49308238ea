package shedding

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vesta-ems/vesta/core/model"
)

// Registry holds the named loads known to the advisor. The advisor treats it
// as read-only within a tick; edits happen between ticks.
type Registry struct {
	mu    sync.RWMutex
	loads map[string]model.Load
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{loads: make(map[string]model.Load)}
}

// DefaultRegistry returns the registry preloaded with the pilot building's
// loads.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, l := range []model.Load{
		{Name: "lights", Class: model.LoadCritical, RatedPowerKW: 0.2},
		{Name: "router", Class: model.LoadCritical, RatedPowerKW: 0.05},
		{Name: "refrigerator", Class: model.LoadCritical, RatedPowerKW: 0.15},
		{Name: "washing_machine", Class: model.LoadDeferrable, RatedPowerKW: 1.5},
		{Name: "ev_charger", Class: model.LoadDeferrable, RatedPowerKW: 3.0},
		{Name: "air_conditioner", Class: model.LoadDeferrable, RatedPowerKW: 2.0},
		{Name: "dishwasher", Class: model.LoadDeferrable, RatedPowerKW: 1.2},
	} {
		_ = r.Register(l)
	}
	return r
}

// Register adds or replaces a load. Critical loads already registered cannot
// be downgraded to deferrable.
func (r *Registry) Register(l model.Load) error {
	if err := l.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.loads[l.Name]; ok &&
		existing.Class == model.LoadCritical && l.Class != model.LoadCritical {
		return fmt.Errorf("load %s is critical and cannot be reclassified", l.Name)
	}
	r.loads[l.Name] = l
	return nil
}

// Remove deletes a deferrable load. Critical loads are fixed members of the
// registry.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loads[name]
	if !ok {
		return fmt.Errorf("load %s not registered", name)
	}
	if l.Class == model.LoadCritical {
		return fmt.Errorf("load %s is critical and cannot be removed", name)
	}
	delete(r.loads, name)
	return nil
}

// Get returns the load with the given name.
func (r *Registry) Get(name string) (model.Load, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loads[name]
	return l, ok
}

// Loads returns all registered loads sorted by name so advisor output is
// deterministic.
func (r *Registry) Loads() []model.Load {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Load, 0, len(r.loads))
	for _, l := range r.loads {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
