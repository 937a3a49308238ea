package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/vesta-ems/vesta/core/metrics"
	"github.com/vesta-ems/vesta/core/model"
	"github.com/vesta-ems/vesta/infra/logger"
)

// InfluxSink writes decision records to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	base := strings.TrimSuffix(cfg.InfluxURL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails, so a missing backend never stalls
// decisions.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordDecision writes the decision as one point per tick.
func (s *InfluxSink) RecordDecision(rec model.DecisionRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("decision").
		AddTag("decision_id", rec.ID).
		AddTag("grid_action", rec.GridAction.String()).
		AddTag("component", "decision_engine").
		AddField("demand_kw", round3(rec.DemandKW)).
		AddField("cost_total", round3(rec.CostTotal)).
		AddField("carbon_total_g", round3(rec.CarbonTotalG)).
		AddField("battery_charge_kwh", round3(rec.BatteryChargeAfter)).
		AddField("grid_revenue", round3(rec.GridRevenue)).
		AddField("deferred_power_kw", round3(rec.Shedding.DeferredPowerKW)).
		AddField("solar_kw", round3(rec.Allocation.Share(model.SourceSolar))).
		AddField("battery_kw", round3(rec.Allocation.Share(model.SourceBattery))).
		AddField("grid_kw", round3(rec.Allocation.Share(model.SourceGrid))).
		SetTime(rec.Timestamp)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
