package lp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textbook() Problem {
	return Problem{
		C: []float64{100, 85},
		A: [][]float64{
			{12, 24},
			{9, 5},
			{30, 30},
		},
		B: []float64{480, 180, 720},
	}
}

func TestSimplexSolver_Textbook(t *testing.T) {
	cases := []struct {
		name  string
		p     Problem
		obj   float64
		vars  []float64
		iters int
	}{
		{"two_vars", textbook(), 2265, []float64{15, 9}, 2},
		{
			"three_vars",
			Problem{
				C: []float64{4, 3, 5},
				A: [][]float64{{4, 12, 8}, {4, 4, 8}, {12, 4, 8}},
				B: []float64{4800, 4000, 5600},
			},
			2850, []float64{200, 100, 350}, 3,
		},
		{
			"four_vars",
			Problem{
				C: []float64{7, 9, 18, 17},
				A: [][]float64{{2, 4, 5, 7}, {1, 1, 2, 2}, {1, 2, 3, 3}},
				B: []float64{42, 17, 24},
			},
			147, []float64{3, 0, 7, 0}, 2,
		},
	}
	solver := NewSimplexSolver(DefaultOptions())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sol, err := solver.Solve(tc.p, true)
			require.NoError(t, err)
			assert.InDelta(t, tc.obj, sol.ObjectiveValue, 1e-9)
			assert.InDeltaSlice(t, tc.vars, sol.Variables, 1e-9)
			assert.Equal(t, tc.iters, sol.Iterations)
		})
	}
}

func TestSimplexSolver_BasisColumnsStayUnitVectors(t *testing.T) {
	pivots := 0
	opts := DefaultOptions()
	opts.OnPivot = func(step PivotStep) {
		pivots++
		m := step.Tableau.Matrix()
		rows, _ := m.Dims()
		for r, col := range step.Tableau.Basis() {
			for i := 0; i < rows; i++ {
				want := 0.0
				if i == r {
					want = 1
				}
				if got := m.At(i, col); got != want {
					t.Fatalf("pivot %d: basic column %d row %d = %v, want %v", step.Iteration, col, i, got, want)
				}
			}
		}
	}
	p := Problem{
		C: []float64{4, 3, 5},
		A: [][]float64{{4, 12, 8}, {4, 4, 8}, {12, 4, 8}},
		B: []float64{4800, 4000, 5600},
	}
	if _, err := NewSimplexSolver(opts).Solve(p, true); err != nil {
		t.Fatalf("solve: %v", err)
	}
	if pivots != 3 {
		t.Fatalf("expected 3 pivots got %d", pivots)
	}
}

func TestSimplexSolver_ObjectiveMonotone(t *testing.T) {
	var objs []float64
	opts := DefaultOptions()
	opts.OnPivot = func(step PivotStep) { objs = append(objs, step.Objective) }
	sol, err := NewSimplexSolver(opts).Solve(textbook(), true)
	require.NoError(t, err)
	for i := 1; i < len(objs); i++ {
		assert.GreaterOrEqual(t, objs[i], objs[i-1])
	}
	assert.Equal(t, sol.ObjectiveValue, objs[len(objs)-1])
}

func TestTableau_OptimalIsStable(t *testing.T) {
	tab := NewTableau(textbook(), true, DefaultOptions())
	for !tab.IsOptimal() {
		col := tab.EnteringColumn()
		row := tab.LeavingRow(col)
		require.GreaterOrEqual(t, row, 0)
		tab.Pivot(row, col)
	}
	obj := tab.Objective()
	assert.Equal(t, -1, tab.EnteringColumn())
	assert.Equal(t, -1, tab.LeavingRow(tab.EnteringColumn()))
	assert.True(t, tab.IsOptimal())
	assert.Equal(t, obj, tab.Objective())
}

func TestTableau_InitialLayout(t *testing.T) {
	p := Problem{C: []float64{3, 2}, A: [][]float64{{1, 1}, {1, 0}}, B: []float64{4, 3}}
	tab := NewTableau(p, true, DefaultOptions())
	rows, cols := tab.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 5, cols)
	assert.Equal(t, []int{2, 3}, tab.Basis())
	m := tab.Matrix()
	assert.Equal(t, -3.0, m.At(2, 0))
	assert.Equal(t, -2.0, m.At(2, 1))
	assert.Equal(t, 1.0, m.At(0, 2))
	assert.Equal(t, 1.0, m.At(1, 3))
	assert.Equal(t, 4.0, m.At(0, 4))

	minTab := NewTableau(p, false, DefaultOptions())
	assert.Equal(t, 3.0, minTab.Matrix().At(2, 0))
}

func TestSimplexSolver_Idempotent(t *testing.T) {
	s := NewSimplexSolver(DefaultOptions())
	p := textbook()
	a, err := s.Solve(p, true)
	require.NoError(t, err)
	b, err := s.Solve(p, true)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, []float64{100, 85}, p.C, "input must not be mutated")
}

func TestSimplexSolver_NonPositiveObjective(t *testing.T) {
	pivots := 0
	opts := DefaultOptions()
	opts.OnPivot = func(PivotStep) { pivots++ }
	p := Problem{
		C: []float64{-1, 0, -3},
		A: [][]float64{{1, 1, 1}, {2, 0, 1}},
		B: []float64{10, 4},
	}
	sol, err := NewSimplexSolver(opts).Solve(p, true)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sol.ObjectiveValue)
	assert.Equal(t, []float64{0, 0, 0}, sol.Variables)
	assert.Equal(t, 0, sol.Iterations)
	assert.Equal(t, 0, pivots)
}

func TestSimplexSolver_Minimize(t *testing.T) {
	p := Problem{C: []float64{-1, -2}, A: [][]float64{{1, 1}, {0, 1}}, B: []float64{4, 3}}
	sol, err := NewSimplexSolver(DefaultOptions()).Solve(p, false)
	require.NoError(t, err)
	assert.InDelta(t, -7, sol.ObjectiveValue, 1e-9)
	assert.InDeltaSlice(t, []float64{1, 3}, sol.Variables, 1e-9)

	// Minimizing a non-negative cost stays at the origin.
	p.C = []float64{1, 2}
	sol, err = NewSimplexSolver(DefaultOptions()).Solve(p, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sol.ObjectiveValue)
}

func TestSimplexSolver_Unbounded(t *testing.T) {
	s := NewSimplexSolver(DefaultOptions())
	_, err := s.Solve(Problem{C: []float64{1, 1}, A: [][]float64{{-1, 1}}, B: []float64{1}}, true)
	assert.ErrorIs(t, err, ErrUnbounded)

	_, err = s.Solve(Problem{C: []float64{1}}, true)
	assert.ErrorIs(t, err, ErrUnbounded)
}

func TestSimplexSolver_IterationLimit(t *testing.T) {
	s := NewSimplexSolver(Options{MaxIterations: 1, Epsilon: DefaultEpsilon})
	_, err := s.Solve(textbook(), true)
	assert.ErrorIs(t, err, ErrIterationLimit)
}

func TestSimplexSolver_InfeasibleStart(t *testing.T) {
	pivots := 0
	opts := DefaultOptions()
	opts.OnPivot = func(PivotStep) { pivots++ }
	p := Problem{C: []float64{1}, A: [][]float64{{1}, {-1}}, B: []float64{10, -2}}
	_, err := NewSimplexSolver(opts).Solve(p, true)
	assert.ErrorIs(t, err, ErrInfeasibleStart)
	assert.Equal(t, 0, pivots)
}

func TestSimplexSolver_Shape(t *testing.T) {
	s := NewSimplexSolver(DefaultOptions())
	_, err := s.Solve(Problem{C: []float64{1, 2}, A: [][]float64{{1}}, B: []float64{1}}, true)
	assert.ErrorIs(t, err, ErrShape)
	_, err = s.Solve(Problem{C: []float64{1}, A: [][]float64{{1}}, B: nil}, true)
	assert.ErrorIs(t, err, ErrShape)
}

func TestSimplexSolver_BlandMatchesDantzig(t *testing.T) {
	p := Problem{
		C: []float64{4, 3, 5},
		A: [][]float64{{4, 12, 8}, {4, 4, 8}, {12, 4, 8}},
		B: []float64{4800, 4000, 5600},
	}
	d, err := NewSimplexSolver(DefaultOptions()).Solve(p, true)
	require.NoError(t, err)
	opts := DefaultOptions()
	opts.Rule = Bland
	b, err := NewSimplexSolver(opts).Solve(p, true)
	require.NoError(t, err)
	assert.InDelta(t, d.ObjectiveValue, b.ObjectiveValue, 1e-9)
	assert.InDeltaSlice(t, d.Variables, b.Variables, 1e-6)
}

// beale is Beale's degenerate example, on which Dantzig's rule with
// first-index ties cycles forever.
func beale() Problem {
	return Problem{
		C: []float64{0.75, -20, 0.5, -6},
		A: [][]float64{
			{0.25, -8, -1, 9},
			{0.5, -12, -0.5, 3},
			{0, 0, 1, 0},
		},
		B: []float64{0, 0, 1},
	}
}

func TestSimplexSolver_BlandAvoidsCycling(t *testing.T) {
	_, err := NewSimplexSolver(DefaultOptions()).Solve(beale(), true)
	assert.ErrorIs(t, err, ErrIterationLimit)

	opts := DefaultOptions()
	opts.Rule = Bland
	sol, err := NewSimplexSolver(opts).Solve(beale(), true)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, sol.ObjectiveValue, 1e-9)
	p := beale()
	for i, row := range p.A {
		lhs := 0.0
		for j, a := range row {
			lhs += a * sol.Variables[j]
		}
		assert.LessOrEqual(t, lhs, p.B[i]+1e-9, "row %d", i)
	}
	for j, v := range sol.Variables {
		assert.GreaterOrEqual(t, v, -1e-12, "x[%d]", j)
	}
	assert.LessOrEqual(t, sol.Iterations, 10)

	ref, err := GonumSolver{}.Solve(beale(), true)
	require.NoError(t, err)
	assert.InDelta(t, ref.ObjectiveValue, sol.ObjectiveValue, 1e-9)
}

func TestSimplexSolver_TinyNegativeRHSIsZero(t *testing.T) {
	p := Problem{C: []float64{1}, A: [][]float64{{1}, {1}}, B: []float64{5, -1e-10}}
	sol, err := NewSimplexSolver(DefaultOptions()).Solve(p, true)
	require.NoError(t, err)
	for i, v := range sol.Variables {
		assert.GreaterOrEqual(t, v, 0.0, "x[%d]", i)
	}
	assert.Equal(t, 0.0, sol.Variables[0])
	assert.Equal(t, -1e-10, p.B[1], "caller's problem must not be modified")
}

func TestNewSimplexSolver_NegativeEpsilon(t *testing.T) {
	s := NewSimplexSolver(Options{Epsilon: -1e-3})
	assert.Equal(t, 1e-3, s.Options().Epsilon)
	sol, err := s.Solve(Problem{C: []float64{1}, A: [][]float64{{1}, {1}}, B: []float64{5, 0}}, true)
	require.NoError(t, err)
	assert.InDelta(t, 0, sol.ObjectiveValue, 1e-12)
}

func TestParsePivotRule(t *testing.T) {
	r, err := ParsePivotRule("Bland")
	require.NoError(t, err)
	assert.Equal(t, Bland, r)
	r, err = ParsePivotRule("")
	require.NoError(t, err)
	assert.Equal(t, Dantzig, r)
	_, err = ParsePivotRule("steepest")
	assert.Error(t, err)
	assert.Equal(t, "bland", Bland.String())
}

func TestReason(t *testing.T) {
	cases := map[string]error{
		"ok":               nil,
		"unbounded":        ErrUnbounded,
		"iteration_limit":  ErrIterationLimit,
		"infeasible_start": ErrInfeasibleStart,
		"infeasible":       ErrInfeasible,
		"shape":            ErrShape,
		"unknown":          errors.New("boom"),
	}
	for want, err := range cases {
		if got := Reason(err); got != want {
			t.Errorf("Reason(%v) = %s, want %s", err, got, want)
		}
	}
}
