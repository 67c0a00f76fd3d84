package events

import (
	"time"

	"github.com/kilianp07/blendplan/core/model"
)

// PlanEvent is published after every planning request. Plan is only
// meaningful when Err is nil.
type PlanEvent struct {
	RunID    string
	Plan     model.Plan
	Reason   string
	Fallback bool
	Duration time.Duration
	Err      error
}

// OK reports whether the request produced a plan.
func (e PlanEvent) OK() bool { return e.Err == nil }
