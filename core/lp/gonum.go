package lp

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	gonumlp "gonum.org/v1/gonum/optimize/convex/lp"
)

// DefaultGonumTol is used when GonumSolver.Tol is zero.
const DefaultGonumTol = 1e-10

// GonumSolver delegates to gonum's standard-form simplex. Unlike
// SimplexSolver it runs a phase-1 search, so it accepts negative
// right-hand sides.
type GonumSolver struct {
	// Tol is passed to gonum as the optimality tolerance.
	Tol float64
}

// Solve converts Ax ≤ b, x ≥ 0 into standard form [A | I][x; s] = b and
// minimizes -cᵀx (maximization) or cᵀx.
func (g GonumSolver) Solve(p Problem, maximize bool) (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{}, err
	}
	n, m := len(p.C), len(p.A)
	cost := make([]float64, n)
	for j, v := range p.C {
		if maximize {
			v = -v
		}
		cost[j] = v
	}

	// gonum rejects all-zero columns; such variables stay at 0 unless they
	// improve the objective, in which case the problem is unbounded.
	var cols []int
	for j := 0; j < n; j++ {
		zero := true
		for i := 0; i < m; i++ {
			if p.A[i][j] != 0 {
				zero = false
				break
			}
		}
		if !zero {
			cols = append(cols, j)
			continue
		}
		if cost[j] < 0 {
			return Solution{}, fmt.Errorf("%w: variable %d is unconstrained", ErrUnbounded, j)
		}
	}

	vars := make([]float64, n)
	if m == 0 || len(cols) == 0 {
		for i, b := range p.B {
			if b < 0 {
				return Solution{}, fmt.Errorf("%w: row %d requires 0 ≤ %g", ErrInfeasible, i, b)
			}
		}
		return Solution{Variables: vars, ObjectiveValue: floats.Dot(p.C, vars)}, nil
	}

	k := len(cols)
	std := mat.NewDense(m, k+m, nil)
	c := make([]float64, k+m)
	for jj, j := range cols {
		c[jj] = cost[j]
		for i := 0; i < m; i++ {
			std.Set(i, jj, p.A[i][j])
		}
	}
	for i := 0; i < m; i++ {
		std.Set(i, k+i, 1)
	}
	b := make([]float64, m)
	copy(b, p.B)

	tol := g.Tol
	if tol <= 0 {
		tol = DefaultGonumTol
	}
	_, x, err := gonumlp.Simplex(c, std, b, tol, nil)
	if err != nil {
		return Solution{}, mapGonumError(err)
	}
	for jj, j := range cols {
		vars[j] = x[jj]
	}
	return Solution{Variables: vars, ObjectiveValue: floats.Dot(p.C, vars)}, nil
}

func mapGonumError(err error) error {
	switch {
	case errors.Is(err, gonumlp.ErrInfeasible):
		return fmt.Errorf("%w: %v", ErrInfeasible, err)
	case errors.Is(err, gonumlp.ErrUnbounded):
		return fmt.Errorf("%w: %v", ErrUnbounded, err)
	default:
		return fmt.Errorf("gonum simplex: %w", err)
	}
}
