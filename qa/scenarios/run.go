package scenarios

import (
	"context"
	"errors"
	"fmt"
	"math"

	coremetrics "github.com/kilianp07/blendplan/core/metrics"
	"github.com/kilianp07/blendplan/core/lp"
	"github.com/kilianp07/blendplan/core/model"
	"github.com/kilianp07/blendplan/core/planner"
	"github.com/kilianp07/blendplan/infra/logger"
)

// Result is what one scenario run produced.
type Result struct {
	Plan   model.Plan
	Status string
	Err    error
}

// Run solves the scenario problem with its solver settings, recording the
// solve into sink.
func Run(ctx context.Context, sc *Scenario, sink coremetrics.MetricsSink) (Result, error) {
	p, err := planner.FromConfig(sc.Solver, sink, nil, logger.NopLogger{})
	if err != nil {
		return Result{}, err
	}
	plan, err := p.Plan(ctx, sc.Problem)
	return Result{Plan: plan, Status: lp.Reason(err), Err: err}, nil
}

// Check compares res with the scenario expectations and reports every
// mismatch.
func (sc *Scenario) Check(res Result) error {
	exp := sc.Expected
	var errs []error
	if res.Status != exp.Status {
		return fmt.Errorf("status %s, want %s (err: %v)", res.Status, exp.Status, res.Err)
	}
	if exp.Status != "ok" {
		return nil
	}
	if exp.Backend != "" && res.Plan.Backend != exp.Backend {
		errs = append(errs, fmt.Errorf("backend %s, want %s", res.Plan.Backend, exp.Backend))
	}
	if exp.Profit != nil && math.Abs(res.Plan.Profit-*exp.Profit) > exp.Tolerance {
		errs = append(errs, fmt.Errorf("profit %v, want %v", res.Plan.Profit, *exp.Profit))
	}
	if exp.Iterations != nil && res.Plan.Iterations != *exp.Iterations {
		errs = append(errs, fmt.Errorf("iterations %d, want %d", res.Plan.Iterations, *exp.Iterations))
	}
	if err := compare("variables", res.Plan.Variables, exp.Variables, exp.Tolerance); err != nil {
		errs = append(errs, err)
	}
	if err := compare("product_output", res.Plan.ProductOutput, exp.ProductOutput, exp.Tolerance); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func compare(field string, got, want []float64, tol float64) error {
	if want == nil {
		return nil
	}
	if len(got) != len(want) {
		return fmt.Errorf("%s has %d values, want %d", field, len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > tol {
			return fmt.Errorf("%s[%d] = %v, want %v", field, i, got[i], want[i])
		}
	}
	return nil
}
