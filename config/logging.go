package config

import "fmt"

// Decision log backends.
const (
	LogBackendMemory = "memory"
	LogBackendJSONL  = "jsonl"
	LogBackendSQLite = "sqlite"
)

// LoggingConfig selects where decision records are persisted.
type LoggingConfig struct {
	// Backend is one of "memory", "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file path for the jsonl and sqlite backends.
	Path string `json:"path"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = LogBackendMemory
	}
}

func (c LoggingConfig) Validate() error {
	switch c.Backend {
	case LogBackendMemory:
		return nil
	case LogBackendJSONL, LogBackendSQLite:
		if c.Path == "" {
			return fmt.Errorf("logging: path is required for backend %q", c.Backend)
		}
		return nil
	default:
		return fmt.Errorf("logging: unknown backend %q", c.Backend)
	}
}
