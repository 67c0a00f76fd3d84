package lp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGonumSolver_AgreesWithTableau(t *testing.T) {
	problems := []Problem{
		textbook(),
		{
			C: []float64{4, 3, 5},
			A: [][]float64{{4, 12, 8}, {4, 4, 8}, {12, 4, 8}},
			B: []float64{4800, 4000, 5600},
		},
		{
			C: []float64{7, 9, 18, 17},
			A: [][]float64{{2, 4, 5, 7}, {1, 1, 2, 2}, {1, 2, 3, 3}},
			B: []float64{42, 17, 24},
		},
	}
	tableau := NewSimplexSolver(DefaultOptions())
	for _, p := range problems {
		want, err := tableau.Solve(p, true)
		require.NoError(t, err)
		got, err := GonumSolver{}.Solve(p, true)
		require.NoError(t, err)
		assert.InDelta(t, want.ObjectiveValue, got.ObjectiveValue, 1e-6)
	}
}

func TestGonumSolver_NegativeRHS(t *testing.T) {
	p := Problem{C: []float64{1}, A: [][]float64{{1}, {-1}}, B: []float64{10, -2}}
	sol, err := GonumSolver{}.Solve(p, true)
	require.NoError(t, err)
	assert.InDelta(t, 10, sol.ObjectiveValue, 1e-9)

	sol, err = GonumSolver{}.Solve(p, false)
	require.NoError(t, err)
	assert.InDelta(t, 2, sol.Variables[0], 1e-9)
	assert.InDelta(t, 2, sol.ObjectiveValue, 1e-9)
}

func TestGonumSolver_Failures(t *testing.T) {
	_, err := GonumSolver{}.Solve(Problem{C: []float64{1}, A: [][]float64{{1}, {-1}}, B: []float64{1, -2}}, true)
	assert.ErrorIs(t, err, ErrInfeasible)

	_, err = GonumSolver{}.Solve(Problem{C: []float64{1, 1}, A: [][]float64{{-1, 1}}, B: []float64{1}}, true)
	assert.ErrorIs(t, err, ErrUnbounded)

	_, err = GonumSolver{}.Solve(Problem{C: []float64{0, 1}, A: [][]float64{{1, 0}}, B: []float64{1}}, true)
	assert.ErrorIs(t, err, ErrUnbounded)

	_, err = GonumSolver{}.Solve(Problem{C: []float64{1}, A: [][]float64{{1, 1}}, B: []float64{1}}, true)
	assert.ErrorIs(t, err, ErrShape)
}
