package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/blendplan/core/metrics"
)

// PromSink records solve outcomes in Prometheus metrics.
type PromSink struct {
	solves     *prometheus.CounterVec
	iterations *prometheus.HistogramVec
	duration   *prometheus.HistogramVec
	profit     prometheus.Gauge
}

// NewPromSink registers solve metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately, see StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blendplan_solves_total",
		Help: "Total number of planning requests by backend, status and fallback use",
	}, []string{"backend", "status", "fallback"})
	iterations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blendplan_solve_iterations",
		Help:    "Simplex pivots performed per successful solve",
		Buckets: prometheus.ExponentialBuckets(1, 2, 11),
	}, []string{"backend"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blendplan_solve_duration_seconds",
		Help:    "Wall time of a planning request",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "status"})
	profit := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "blendplan_last_profit",
		Help: "Profit of the most recent successful plan",
	})

	var err error
	if solves, err = register(reg, solves); err != nil {
		return nil, err
	}
	if iterations, err = register(reg, iterations); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if profit, err = register(reg, profit); err != nil {
		return nil, err
	}
	return &PromSink{solves: solves, iterations: iterations, duration: duration, profit: profit}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSolve updates counters and histograms for one request.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.solves.WithLabelValues(ev.Backend, ev.Status, strconv.FormatBool(ev.Fallback)).Inc()
	s.duration.WithLabelValues(ev.Backend, ev.Status).Observe(ev.Duration.Seconds())
	if ev.Status == "ok" {
		s.iterations.WithLabelValues(ev.Backend).Observe(float64(ev.Iterations))
		s.profit.Set(ev.Profit)
	}
	return nil
}
