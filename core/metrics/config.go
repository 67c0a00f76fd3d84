package metrics

import "github.com/kilianp07/blendplan/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// PrometheusPort is the listen address of a standalone /metrics
	// endpoint, e.g. ":9100". Empty disables it.
	PrometheusPort string `json:"prometheus_port" yaml:"prometheus_port"`
}
