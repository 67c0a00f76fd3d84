package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/blendplan/core/factory"
	coremetrics "github.com/kilianp07/blendplan/core/metrics"
	"github.com/kilianp07/blendplan/infra/logger"
)

// influxConf is the "conf" block of an influx sink entry.
type influxConf struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// Sink types accepted in metrics.sinks:
//
//	nop         discards events
//	log         logs one line per solve
//	prometheus  registers on the default registry
//	influx      writes solve_event points; needs url and bucket
func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterMetricsSink("log", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewLogSink(logger.New("solve_metrics")), nil
	})

	_ = coremetrics.RegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c influxConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.URL == "" || c.Bucket == "" {
			return nil, fmt.Errorf("influx sink: url and bucket are required")
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}

// LogSink writes each solve event as a structured log line.
type LogSink struct {
	log logger.Logger
}

// NewLogSink returns a sink logging through log.
func NewLogSink(log logger.Logger) *LogSink {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &LogSink{log: log}
}

func (s *LogSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.log.Infow("solve", map[string]any{
		"run_id":      ev.RunID,
		"backend":     ev.Backend,
		"status":      ev.Status,
		"fallback":    ev.Fallback,
		"iterations":  ev.Iterations,
		"variables":   ev.Variables,
		"constraints": ev.Constraints,
		"profit":      ev.Profit,
		"duration_ms": float64(ev.Duration.Microseconds()) / 1000,
	})
	return nil
}
