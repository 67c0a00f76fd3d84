// Package planner runs one planning request end to end: validate the input,
// formulate the LP, solve it with the primary backend (and the fallback when
// configured), decode the plan, then record the run, the metrics and the
// plan event.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/blendplan/core/events"
	"github.com/kilianp07/blendplan/core/formulation"
	"github.com/kilianp07/blendplan/core/logger"
	"github.com/kilianp07/blendplan/core/lp"
	"github.com/kilianp07/blendplan/core/metrics"
	"github.com/kilianp07/blendplan/core/model"
	coremon "github.com/kilianp07/blendplan/core/monitoring"
	"github.com/kilianp07/blendplan/core/runlog"
	"github.com/kilianp07/blendplan/internal/eventbus"
)

// ErrNoSolution wraps every solver failure. The cause stays reachable with
// errors.Is.
var ErrNoSolution = errors.New("planner: no solution")

// Backend is a named solver.
type Backend struct {
	Name   string
	Solver lp.Solver
}

// Planner turns problem inputs into plans.
type Planner struct {
	primary  Backend
	fallback *Backend
	logger   logger.Logger
	metrics  metrics.MetricsSink
	bus      *eventbus.TypedBus[events.PlanEvent]
	store    runlog.Store
	now      func() time.Time
	newID    func() string
	mu       sync.RWMutex
}

// NewPlanner creates a planner around the primary backend. Nil sink, bus and
// logger are allowed.
func NewPlanner(primary Backend, sink metrics.MetricsSink, bus *eventbus.TypedBus[events.PlanEvent], log logger.Logger) (*Planner, error) {
	if primary.Solver == nil {
		return nil, fmt.Errorf("planner: nil solver provided to NewPlanner")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Planner{
		primary: primary,
		logger:  log,
		metrics: sink,
		bus:     bus,
		store:   runlog.NopStore{},
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

// FromConfig builds the primary and fallback backends described by cfg.
func FromConfig(cfg Config, sink metrics.MetricsSink, bus *eventbus.TypedBus[events.PlanEvent], log logger.Logger) (*Planner, error) {
	solver, err := NewSolver(cfg.Backend, cfg)
	if err != nil {
		return nil, err
	}
	p, err := NewPlanner(Backend{Name: cfg.Backend, Solver: solver}, sink, bus, log)
	if err != nil {
		return nil, err
	}
	if cfg.Fallback != "" {
		fb, err := NewSolver(cfg.Fallback, cfg)
		if err != nil {
			return nil, err
		}
		p.SetFallback(Backend{Name: cfg.Fallback, Solver: fb})
	}
	return p, nil
}

// SetFallback configures the backend tried when the primary fails with
// lp.ErrInfeasibleStart or lp.ErrIterationLimit.
func (p *Planner) SetFallback(b Backend) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if b.Solver == nil {
		p.fallback = nil
		return
	}
	p.fallback = &b
}

// SetRunStore configures the store used to persist run records.
func (p *Planner) SetRunStore(store runlog.Store) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if store == nil {
		store = runlog.NopStore{}
	}
	p.store = store
}

// RunStore returns the configured run store.
func (p *Planner) RunStore() runlog.Store {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.store
}

// outcome collects what one request produced for the bookkeeping steps.
type outcome struct {
	runID    string
	start    time.Time
	in       model.ProblemInput
	rows     int
	backend  string
	fallback bool
	sol      lp.Solution
	plan     model.Plan
	err      error
}

// Plan solves in and returns the decoded plan. Invalid inputs fail with an
// error wrapping lp.ErrShape; solver failures wrap ErrNoSolution and the
// solver's sentinel.
func (p *Planner) Plan(ctx context.Context, in model.ProblemInput) (model.Plan, error) {
	out := outcome{runID: p.newID(), start: p.now(), in: in, backend: p.primary.Name}
	p.logger.Debugw("planning request", map[string]any{"run_id": out.runID, "n": in.N, "m": in.M, "l": in.L})

	if err := ctx.Err(); err != nil {
		return model.Plan{}, err
	}
	form, err := formulation.Formulate(in)
	if err != nil {
		out.err = fmt.Errorf("planner: invalid input: %w", err)
		p.finish(ctx, out)
		return model.Plan{}, out.err
	}
	out.rows = len(form.Rows)
	if err := ctx.Err(); err != nil {
		return model.Plan{}, err
	}

	out.sol, out.backend, out.fallback, err = p.solve(form.Problem)
	if err != nil {
		out.err = fmt.Errorf("%w: %w", ErrNoSolution, err)
		p.finish(ctx, out)
		return model.Plan{}, out.err
	}

	plan := model.NewPlan(in.N, in.M, out.sol.Variables, out.sol.ObjectiveValue)
	plan.RunID = out.runID
	plan.CreatedAt = out.start
	plan.Backend = out.backend
	plan.Iterations = out.sol.Iterations
	out.plan = plan
	p.finish(ctx, out)
	return plan, nil
}

func (p *Planner) solve(prob lp.Problem) (lp.Solution, string, bool, error) {
	p.mu.RLock()
	fb := p.fallback
	p.mu.RUnlock()

	sol, err := p.primary.Solver.Solve(prob, true)
	if err == nil {
		return sol, p.primary.Name, false, nil
	}
	if fb == nil || !(errors.Is(err, lp.ErrInfeasibleStart) || errors.Is(err, lp.ErrIterationLimit)) {
		return lp.Solution{}, p.primary.Name, false, err
	}
	p.logger.Warnf("%s backend failed (%v), retrying with %s", p.primary.Name, err, fb.Name)
	sol, ferr := fb.Solver.Solve(prob, true)
	if ferr != nil {
		return lp.Solution{}, fb.Name, true, ferr
	}
	return sol, fb.Name, true, nil
}

// finish records the run, the metrics and the plan event. Bookkeeping
// failures are logged and never change the request outcome.
func (p *Planner) finish(ctx context.Context, out outcome) {
	dur := p.now().Sub(out.start)
	status := lp.Reason(out.err)

	rec := runlog.RunRecord{
		Timestamp:  out.start,
		RunID:      out.runID,
		Status:     status,
		Backend:    out.backend,
		Fallback:   out.fallback,
		N:          out.in.N,
		M:          out.in.M,
		L:          out.in.L,
		DurationMS: float64(dur.Microseconds()) / 1000,
	}
	fields := map[string]any{
		"run_id":   out.runID,
		"backend":  out.backend,
		"status":   status,
		"fallback": out.fallback,
	}
	if out.err != nil {
		rec.Error = out.err.Error()
		p.logger.Errorf("run %s failed: %v", out.runID, out.err)
		coremon.CaptureException(out.err, map[string]string{
			"module":  "planner",
			"run_id":  out.runID,
			"reason":  status,
			"backend": out.backend,
		})
	} else {
		plan := out.plan
		rec.Plan = &plan
		rec.Profit = plan.Profit
		rec.Iterations = plan.Iterations
		fields["profit"] = plan.Profit
		fields["iterations"] = plan.Iterations
		p.logger.Infow("plan solved", fields)
	}

	if err := p.RunStore().Append(ctx, rec); err != nil {
		p.logger.Errorf("run log append: %v", err)
	}
	if err := p.metrics.RecordSolve(metrics.SolveEvent{
		RunID:       out.runID,
		Backend:     out.backend,
		Status:      status,
		Fallback:    out.fallback,
		Iterations:  out.sol.Iterations,
		Variables:   out.in.NumVars(),
		Constraints: out.rows,
		Profit:      out.plan.Profit,
		Duration:    dur,
		Time:        out.start,
	}); err != nil {
		p.logger.Warnf("metrics error: %v", err)
	}
	if p.bus != nil {
		p.bus.Publish(events.PlanEvent{
			RunID:    out.runID,
			Plan:     out.plan,
			Reason:   status,
			Fallback: out.fallback,
			Duration: dur,
			Err:      out.err,
		})
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
