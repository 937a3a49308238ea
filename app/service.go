package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vesta-ems/vesta/api/decisions"
	"github.com/vesta-ems/vesta/config"
	"github.com/vesta-ems/vesta/core/arbitrage"
	coreconditions "github.com/vesta-ems/vesta/core/conditions"
	"github.com/vesta-ems/vesta/core/decisionlog"
	"github.com/vesta-ems/vesta/core/engine"
	"github.com/vesta-ems/vesta/core/forecast"
	coremetrics "github.com/vesta-ems/vesta/core/metrics"
	"github.com/vesta-ems/vesta/core/model"
	"github.com/vesta-ems/vesta/core/optimizer"
	"github.com/vesta-ems/vesta/core/shedding"
	infraconditions "github.com/vesta-ems/vesta/infra/conditions"
	infralog "github.com/vesta-ems/vesta/infra/decisionlog"
	"github.com/vesta-ems/vesta/infra/logger"
	"github.com/vesta-ems/vesta/infra/metrics"
	"github.com/vesta-ems/vesta/infra/mqtt"
	"github.com/vesta-ems/vesta/internal/eventbus"
)

// Service orchestrates the decision engine, the telemetry listener and the
// HTTP surfaces.
type Service struct {
	Engine   *engine.Engine
	provider coreconditions.Provider
	client   *mqtt.Client
	buffer   *mqtt.Buffer
	log      logger.Logger

	lookback    int
	tick        time.Duration
	apiAddr     string
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	store, err := newStore(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("decision store: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	state, err := optimizer.NewState(cfg.Optimizer, logg)
	if err != nil {
		return nil, fmt.Errorf("optimizer state: %w", err)
	}
	arb, err := arbitrage.NewController(cfg.Arbitrage)
	if err != nil {
		return nil, fmt.Errorf("arbitrage controller: %w", err)
	}
	advisor, err := shedding.NewAdvisor(cfg.Shedding)
	if err != nil {
		return nil, fmt.Errorf("shedding advisor: %w", err)
	}

	forecaster := forecast.NewRegressionForecaster()
	bus := eventbus.New[model.DecisionRecord]()
	eng, err := engine.New(state, arb, advisor, shedding.DefaultRegistry(),
		forecaster, store, sink, bus, logg)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	var provider coreconditions.Provider = coreconditions.Synthetic{}
	if cfg.Conditions.LiveConfigured() {
		live, err := infraconditions.NewLive(cfg.Conditions)
		if err != nil {
			return nil, fmt.Errorf("live conditions: %w", err)
		}
		provider = infraconditions.Composite{
			Primary:  live,
			Fallback: coreconditions.Synthetic{},
			Log:      logg,
		}
	}

	buffer := mqtt.NewBuffer(cfg.Service.HistoryCapacity)
	var client *mqtt.Client
	if cfg.MQTT.Broker != "" {
		client, err = mqtt.NewClient(cfg.MQTT, buffer)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
	}

	return &Service{
		Engine:      eng,
		provider:    provider,
		client:      client,
		buffer:      buffer,
		log:         logg,
		lookback:    forecaster.LookbackHours,
		tick:        time.Duration(cfg.Service.TickSeconds) * time.Second,
		apiAddr:     cfg.Service.APIAddr,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

func newStore(cfg config.LoggingConfig) (decisionlog.Store, error) {
	switch cfg.Backend {
	case config.LogBackendJSONL:
		return infralog.NewJSONLStore(cfg.Path)
	case config.LogBackendSQLite:
		return infralog.NewSQLiteStore(cfg.Path)
	default:
		return decisionlog.NewMemoryStore(), nil
	}
}

// DecideNow runs one decision cycle against the current conditions. History
// shorter than the forecaster's lookback is front-padded with the default
// demand profile so on-demand decisions work before telemetry accumulates.
func (s *Service) DecideNow(ctx context.Context) (model.DecisionRecord, error) {
	sample, err := s.provider.Current(ctx)
	if err != nil {
		return model.DecisionRecord{}, fmt.Errorf("conditions: %w", err)
	}
	rec, err := s.Engine.DecideFromHistory(ctx, s.history(time.Now()), sample.Snapshot)
	if err != nil {
		return model.DecisionRecord{}, err
	}
	if s.client != nil {
		if err := s.client.PublishDecision(rec); err != nil {
			s.log.Warnf("publish decision: %v", err)
		}
	}
	return rec, nil
}

func (s *Service) history(at time.Time) []forecast.Reading {
	readings := s.buffer.Readings()
	missing := s.lookback - len(readings)
	if missing <= 0 {
		return readings
	}
	seed := make([]forecast.Reading, 0, s.lookback)
	for i := missing; i > 0; i-- {
		t := at.Add(-time.Duration(len(readings)+i) * time.Hour)
		seed = append(seed, forecast.Reading{
			Timestamp: t,
			DemandKWh: coreconditions.SyntheticDemandAt(t.Hour()),
		})
	}
	return append(seed, readings...)
}

// Run starts the decision loop and the HTTP surfaces, blocking until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.apiAddr != "" {
		go s.serveAPI(ctx)
	}
	if s.tick > 0 {
		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := s.DecideNow(ctx); err != nil {
					s.log.Errorf("decision cycle: %v", err)
				}
			}
		}
	}
	<-ctx.Done()
	return nil
}

func (s *Service) serveAPI(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/api/decisions", decisions.NewLogHandler(s.Engine.Store()))
	mux.Handle("/api/decide", decisions.NewDecideHandler(s))
	srv := &http.Server{Addr: s.apiAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Errorf("api server: %v", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return s.Engine.Close()
}
