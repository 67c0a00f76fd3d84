package lp

import "fmt"

// Problem is a linear program in canonical inequality form:
//
//	optimize cᵀx subject to Ax ≤ b, x ≥ 0
//
// Row i of A paired with B[i] encodes A[i]·x ≤ B[i].
type Problem struct {
	C []float64   `json:"c"`
	A [][]float64 `json:"A"`
	B []float64   `json:"b"`
}

// NumVars returns the number of decision variables.
func (p Problem) NumVars() int { return len(p.C) }

// NumConstraints returns the number of constraint rows.
func (p Problem) NumConstraints() int { return len(p.A) }

// Validate checks that A, b and c have consistent dimensions.
func (p Problem) Validate() error {
	if len(p.A) != len(p.B) {
		return fmt.Errorf("%w: %d constraint rows but %d right-hand sides", ErrShape, len(p.A), len(p.B))
	}
	for i, row := range p.A {
		if len(row) != len(p.C) {
			return fmt.Errorf("%w: row %d has %d coefficients, want %d", ErrShape, i, len(row), len(p.C))
		}
	}
	return nil
}
