package metrics

import (
	"errors"
	"time"
)

// SolveEvent describes one planning request.
type SolveEvent struct {
	RunID   string
	Backend string
	// Status is "ok" or the failure reason from lp.Reason.
	Status      string
	Fallback    bool
	Iterations  int
	Variables   int
	Constraints int
	Profit      float64
	Duration    time.Duration
	Time        time.Time
}

// MetricsSink records solve outcomes for observability purposes.
type MetricsSink interface {
	RecordSolve(ev SolveEvent) error
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) RecordSolve(SolveEvent) error { return nil }

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the event to every sink, even after a failure, and
// joins the errors.
func (m *MultiSink) RecordSolve(ev SolveEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordSolve(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
