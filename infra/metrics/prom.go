// Package metrics contains the Prometheus and InfluxDB sinks that record
// decision telemetry, plus helpers to combine and serve them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/vesta-ems/vesta/core/metrics"
	"github.com/vesta-ems/vesta/core/model"
)

// PromSink records decision events in Prometheus metrics.
type PromSink struct {
	decisions     *prometheus.CounterVec
	allocation    *prometheus.CounterVec
	batteryCharge prometheus.Gauge
	deferredPower prometheus.Gauge
	cost          prometheus.Counter
	carbon        prometheus.Counter
}

// NewPromSink registers decision metrics on the default Prometheus
// registerer. The metrics server is started separately with StartPromServer.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vesta_decisions_total",
		Help: "Total number of completed decision ticks",
	}, []string{"grid_action"})
	allocation := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vesta_allocated_power_kw_total",
		Help: "Cumulative allocated power per source",
	}, []string{"source"})
	batteryCharge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vesta_battery_charge_kwh",
		Help: "Battery stored energy after the latest decision",
	})
	deferredPower := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "vesta_deferred_power_kw",
		Help: "Deferrable load power postponed by the latest decision",
	})
	cost := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vesta_energy_cost_total",
		Help: "Cumulative energy cost across decisions",
	})
	carbon := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "vesta_energy_carbon_grams_total",
		Help: "Cumulative energy carbon in gCO2eq across decisions",
	})

	s := &PromSink{
		decisions:     decisions,
		allocation:    allocation,
		batteryCharge: batteryCharge,
		deferredPower: deferredPower,
		cost:          cost,
		carbon:        carbon,
	}
	for _, c := range []prometheus.Collector{decisions, allocation, batteryCharge, deferredPower, cost, carbon} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordDecision updates all decision metrics from one record.
func (s *PromSink) RecordDecision(rec model.DecisionRecord) error {
	s.decisions.WithLabelValues(rec.GridAction.String()).Inc()
	for _, share := range rec.Allocation {
		s.allocation.WithLabelValues(share.Source.String()).Add(share.PowerKW)
	}
	s.batteryCharge.Set(rec.BatteryChargeAfter)
	s.deferredPower.Set(rec.Shedding.DeferredPowerKW)
	s.cost.Add(rec.CostTotal)
	s.carbon.Add(rec.CarbonTotalG)
	return nil
}
