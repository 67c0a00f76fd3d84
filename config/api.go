package config

import (
	"fmt"
	"time"
)

// APIConfig defines the HTTP API listener.
type APIConfig struct {
	Address string `json:"address"`
	// Token, when set, must be sent as a bearer token on every /api call.
	Token string `json:"token"`
	// MaxBodyBytes caps the size of a problem upload.
	MaxBodyBytes int64 `json:"max_body_bytes"`
	// ShutdownTimeout is how long in-flight requests get on shutdown, e.g. "5s".
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 1 << 20
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("api: max_body_bytes must not be negative")
	}
	return nil
}
