package lp

import (
	"fmt"
	"math"
	"strings"
)

// Solver solves a linear program in canonical inequality form.
type Solver interface {
	Solve(p Problem, maximize bool) (Solution, error)
}

// Solution is an optimal basic feasible solution.
type Solution struct {
	Variables      []float64 `json:"variables"`
	ObjectiveValue float64   `json:"objectiveValue"`
	Iterations     int       `json:"iterations"`
}

// PivotRule selects the entering and leaving variables.
type PivotRule int

const (
	// Dantzig picks the most negative reduced cost. It can cycle on
	// degenerate problems.
	Dantzig PivotRule = iota
	// Bland picks the lowest eligible index and never cycles.
	Bland
)

func (r PivotRule) String() string {
	switch r {
	case Dantzig:
		return "dantzig"
	case Bland:
		return "bland"
	default:
		return "unknown"
	}
}

// ParsePivotRule converts a configuration string into a PivotRule. An empty
// string selects Dantzig.
func ParsePivotRule(s string) (PivotRule, error) {
	switch strings.ToLower(s) {
	case "", "dantzig":
		return Dantzig, nil
	case "bland":
		return Bland, nil
	default:
		return Dantzig, fmt.Errorf("unknown pivot rule %q", s)
	}
}

const (
	// DefaultMaxIterations caps the pivots of one solve.
	DefaultMaxIterations = 1000
	// DefaultEpsilon is the zero tolerance for reduced costs, pivot
	// coefficients and right-hand sides.
	DefaultEpsilon = 1e-9
)

// PivotStep describes one completed pivot.
type PivotStep struct {
	Iteration int
	Row       int
	Col       int
	Objective float64
	Tableau   *Tableau
}

// Options configures a SimplexSolver. Epsilon is the tolerance below which
// reduced costs and pivot coefficients are treated as zero; 0 compares
// exactly.
type Options struct {
	MaxIterations int
	Rule          PivotRule
	Epsilon       float64
	// OnPivot, when set, is called after every pivot.
	OnPivot func(PivotStep)
}

// DefaultOptions returns Dantzig's rule with a 1000 pivot cap.
func DefaultOptions() Options {
	return Options{MaxIterations: DefaultMaxIterations, Rule: Dantzig, Epsilon: DefaultEpsilon}
}

// SimplexSolver runs the primal tableau simplex method from the all-slack
// basis. It holds no per-solve state and may be used concurrently.
type SimplexSolver struct {
	opts Options
}

// NewSimplexSolver returns a solver using opts. A non-positive MaxIterations
// falls back to DefaultMaxIterations and a negative Epsilon is taken by its
// magnitude.
func NewSimplexSolver(opts Options) SimplexSolver {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	opts.Epsilon = math.Abs(opts.Epsilon)
	return SimplexSolver{opts: opts}
}

// Options returns the solver configuration.
func (s SimplexSolver) Options() Options { return s.opts }

// Solve optimizes cᵀx subject to Ax ≤ b and x ≥ 0. Every b[i] must be
// non-negative, otherwise ErrInfeasibleStart is returned without pivoting.
// Entries within Epsilon below zero are treated as 0.
func (s SimplexSolver) Solve(p Problem, maximize bool) (Solution, error) {
	if err := p.Validate(); err != nil {
		return Solution{}, err
	}
	eps := math.Abs(s.opts.Epsilon)
	var clamped []float64
	for i, b := range p.B {
		if b >= 0 {
			continue
		}
		if b < -eps {
			return Solution{}, fmt.Errorf("%w: b[%d] = %g", ErrInfeasibleStart, i, b)
		}
		if clamped == nil {
			clamped = append([]float64(nil), p.B...)
		}
		clamped[i] = 0
	}
	if clamped != nil {
		p.B = clamped
	}
	limit := s.opts.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}

	tab := NewTableau(p, maximize, s.opts)
	for it := 0; ; it++ {
		if tab.IsOptimal() {
			sol := tab.Solution()
			sol.Iterations = it
			return sol, nil
		}
		if it >= limit {
			return Solution{}, fmt.Errorf("%w: %d pivots", ErrIterationLimit, limit)
		}
		col := tab.EnteringColumn()
		row := tab.LeavingRow(col)
		if row < 0 {
			return Solution{}, fmt.Errorf("%w: no positive coefficient in column %d", ErrUnbounded, col)
		}
		tab.Pivot(row, col)
		if s.opts.OnPivot != nil {
			s.opts.OnPivot(PivotStep{Iteration: it + 1, Row: row, Col: col, Objective: tab.Objective(), Tableau: tab})
		}
	}
}
