package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/vesta-ems/vesta/core/arbitrage"
	"github.com/vesta-ems/vesta/core/metrics"
	"github.com/vesta-ems/vesta/core/optimizer"
	"github.com/vesta-ems/vesta/core/shedding"
	"github.com/vesta-ems/vesta/infra/conditions"
	"github.com/vesta-ems/vesta/infra/mqtt"
)

// Config aggregates all service settings.
type Config struct {
	MQTT       mqtt.Config       `json:"mqtt"`
	Optimizer  optimizer.Config  `json:"optimizer"`
	Arbitrage  arbitrage.Config  `json:"arbitrage"`
	Shedding   shedding.Config   `json:"shedding"`
	Conditions conditions.Config `json:"conditions"`
	Metrics    metrics.Config    `json:"metrics"`
	Logging    LoggingConfig     `json:"logging"`
	Service    ServiceConfig     `json:"service"`
}

// Load reads the configuration file (json or yaml) and applies environment
// overrides with the V_ prefix, e.g. V_MQTT__BROKER.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("V_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "v_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every sub-config.
func (c *Config) SetDefaults() {
	c.MQTT.SetDefaults()
	c.Optimizer.SetDefaults()
	c.Arbitrage.SetDefaults()
	c.Shedding.SetDefaults()
	c.Conditions.SetDefaults()
	c.Metrics.SetDefaults()
	c.Logging.SetDefaults()
	c.Service.SetDefaults()
}

// Validate checks every sub-config.
func (c Config) Validate() error {
	// MQTT is optional: an empty broker disables telemetry ingestion.
	if c.MQTT.Broker != "" {
		if err := c.MQTT.Validate(); err != nil {
			return err
		}
	}
	if err := c.Optimizer.Validate(); err != nil {
		return err
	}
	if err := c.Arbitrage.Validate(); err != nil {
		return err
	}
	if err := c.Shedding.Validate(); err != nil {
		return err
	}
	if err := c.Conditions.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return c.Service.Validate()
}
