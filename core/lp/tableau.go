package lp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Tableau is the dense simplex tableau of one solve. Rows 0..m-1 hold the
// constraints augmented with one slack column each and the right-hand side
// in the last column. Row m is the objective row.
//
// A Tableau is mutated in place by Pivot and must not be shared between
// goroutines.
type Tableau struct {
	t        *mat.Dense
	basis    []int
	nVars    int
	m        int
	maximize bool
	eps      float64
	rule     PivotRule
}

// NewTableau builds the initial all-slack tableau for p. The objective row
// holds -c when maximizing and c when minimizing. p must have passed
// Validate.
func NewTableau(p Problem, maximize bool, opts Options) *Tableau {
	n, m := len(p.C), len(p.A)
	cols := n + m + 1
	t := mat.NewDense(m+1, cols, nil)
	basis := make([]int, m)
	for i, row := range p.A {
		for j, v := range row {
			t.Set(i, j, v)
		}
		t.Set(i, n+i, 1)
		t.Set(i, cols-1, p.B[i])
		basis[i] = n + i
	}
	for j, v := range p.C {
		if maximize {
			v = -v
		}
		t.Set(m, j, v)
	}
	return &Tableau{
		t:        t,
		basis:    basis,
		nVars:    n,
		m:        m,
		maximize: maximize,
		eps:      math.Abs(opts.Epsilon),
		rule:     opts.Rule,
	}
}

// Dims returns the number of rows and columns of the tableau.
func (tb *Tableau) Dims() (rows, cols int) { return tb.t.Dims() }

// Matrix exposes the tableau for inspection.
func (tb *Tableau) Matrix() mat.Matrix { return tb.t }

// Basis returns a copy of the basic variable index recorded for each
// constraint row.
func (tb *Tableau) Basis() []int {
	out := make([]int, len(tb.basis))
	copy(out, tb.basis)
	return out
}

func (tb *Tableau) rhsCol() int {
	_, c := tb.t.Dims()
	return c - 1
}

// IsOptimal reports whether no objective-row entry is negative.
func (tb *Tableau) IsOptimal() bool {
	obj := tb.t.RawRowView(tb.m)
	for _, v := range obj[:tb.rhsCol()] {
		if v < -tb.eps {
			return false
		}
	}
	return true
}

// EnteringColumn selects the entering variable or returns -1 when the
// tableau is optimal. Dantzig picks the most negative reduced cost, first on
// ties. Bland picks the lowest index with a negative reduced cost.
func (tb *Tableau) EnteringColumn() int {
	obj := tb.t.RawRowView(tb.m)
	col := -1
	best := -tb.eps
	for j, v := range obj[:tb.rhsCol()] {
		if v >= best {
			continue
		}
		if tb.rule == Bland {
			return j
		}
		best = v
		col = j
	}
	return col
}

// LeavingRow applies the minimum ratio test to the entering column and
// returns -1 when no row has a positive coefficient.
func (tb *Tableau) LeavingRow(col int) int {
	if col < 0 {
		return -1
	}
	rhs := tb.rhsCol()
	row := -1
	minRatio := math.Inf(1)
	for i := 0; i < tb.m; i++ {
		a := tb.t.At(i, col)
		if a <= tb.eps {
			continue
		}
		ratio := tb.t.At(i, rhs) / a
		switch {
		case ratio < minRatio:
			minRatio = ratio
			row = i
		case ratio == minRatio && tb.rule == Bland && tb.basis[i] < tb.basis[row]:
			row = i
		}
	}
	return row
}

// Pivot normalizes the pivot row and eliminates col from every other row,
// then records col as basic for row.
func (tb *Tableau) Pivot(row, col int) {
	pr := tb.t.RawRowView(row)
	p := pr[col]
	for j := range pr {
		pr[j] /= p
	}
	rows, _ := tb.t.Dims()
	for i := 0; i < rows; i++ {
		if i == row {
			continue
		}
		r := tb.t.RawRowView(i)
		mult := r[col]
		if mult == 0 {
			continue
		}
		floats.AddScaled(r, -mult, pr)
		r[col] = 0
	}
	tb.basis[row] = col
}

// Objective returns the objective value cᵀx of the current basic solution.
// The bottom-right entry holds cᵀx when maximizing and -cᵀx when
// minimizing.
func (tb *Tableau) Objective() float64 {
	v := tb.t.At(tb.m, tb.rhsCol())
	if !tb.maximize {
		return -v
	}
	return v
}

// Solution extracts the current basic solution. Non-basic variables are 0.
func (tb *Tableau) Solution() Solution {
	vars := make([]float64, tb.nVars)
	rhs := tb.rhsCol()
	for i, v := range tb.basis {
		if v < tb.nVars {
			vars[v] = tb.t.At(i, rhs)
		}
	}
	return Solution{Variables: vars, ObjectiveValue: tb.Objective()}
}
