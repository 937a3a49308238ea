package config

import "fmt"

// ServiceConfig drives the decision loop and the HTTP API.
type ServiceConfig struct {
	// TickSeconds is the period of the automatic decision loop.
	// A negative value disables the loop; decisions then only happen on demand.
	TickSeconds int `json:"tick_seconds"`
	// APIAddr is the listen address of the HTTP API, e.g. ":8080".
	// Empty disables the API.
	APIAddr string `json:"api_addr"`
	// HistoryCapacity bounds the in-memory demand reading buffer.
	HistoryCapacity int `json:"history_capacity"`
}

func (c *ServiceConfig) SetDefaults() {
	if c.TickSeconds == 0 {
		c.TickSeconds = 3600
	}
	if c.HistoryCapacity == 0 {
		c.HistoryCapacity = 48
	}
}

func (c ServiceConfig) Validate() error {
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("service: history_capacity must be at least 1")
	}
	return nil
}
