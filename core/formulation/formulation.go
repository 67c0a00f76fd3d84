// Package formulation translates a blending problem into a canonical
// maximization LP over the variables x[s,j] laid out by model.VarIndex.
package formulation

import (
	"fmt"
	"math"

	"github.com/kilianp07/blendplan/core/lp"
	"github.com/kilianp07/blendplan/core/model"
)

// RowKind identifies the constraint family of a row.
type RowKind int

const (
	// QualityLower is Σ_j (lower[s][i] − q[j][i])·x[s,j] ≤ 0.
	QualityLower RowKind = iota
	// QualityUpper is Σ_j (q[j][i] − upper[s][i])·x[s,j] ≤ 0.
	QualityUpper
	// ComponentUpper caps the use of component j by supply plus stock.
	ComponentUpper
	// ComponentLower forces the use of whatever supply plus stock of
	// component j exceeds its park volume; its right-hand side is never
	// positive.
	ComponentLower
	// ProductUpper caps the output of product s by park volume plus
	// planned supply minus stock.
	ProductUpper
	// ProductLower forces the output of product s to cover planned supply
	// not met by stock; its right-hand side is never positive.
	ProductLower
)

func (k RowKind) String() string {
	switch k {
	case QualityLower:
		return "quality_lower"
	case QualityUpper:
		return "quality_upper"
	case ComponentUpper:
		return "component_upper"
	case ComponentLower:
		return "component_lower"
	case ProductUpper:
		return "product_upper"
	case ProductLower:
		return "product_lower"
	default:
		return "unknown"
	}
}

// Row labels one constraint. Indices that do not apply are -1.
type Row struct {
	Kind           RowKind `json:"kind"`
	Product        int     `json:"product"`
	Component      int     `json:"component"`
	Characteristic int     `json:"characteristic"`
}

func (r Row) String() string {
	switch r.Kind {
	case QualityLower, QualityUpper:
		return fmt.Sprintf("%s[s=%d,i=%d]", r.Kind, r.Product, r.Characteristic)
	case ComponentUpper, ComponentLower:
		return fmt.Sprintf("%s[j=%d]", r.Kind, r.Component)
	default:
		return fmt.Sprintf("%s[s=%d]", r.Kind, r.Product)
	}
}

// Formulation is the LP built from a ProblemInput. Rows[i] describes
// Problem.A[i].
type Formulation struct {
	Problem lp.Problem
	Rows    []Row
}

// Formulate validates in and builds the profit-maximization LP. Row order is
// fixed: quality bands per product and characteristic, then component
// capacity per component, then product output per product.
func Formulate(in model.ProblemInput) (Formulation, error) {
	if err := in.Validate(); err != nil {
		return Formulation{}, err
	}
	b := newBuilder(in)
	b.objective()
	b.quality()
	b.components()
	b.products()
	return Formulation{Problem: lp.Problem{C: b.c, A: b.a, B: b.rhs}, Rows: b.rows}, nil
}

type builder struct {
	in   model.ProblemInput
	c    []float64
	a    [][]float64
	rhs  []float64
	rows []Row
}

func newBuilder(in model.ProblemInput) *builder {
	rows := 2*in.M*in.L + 2*in.N + 2*in.M
	return &builder{
		in:   in,
		a:    make([][]float64, 0, rows),
		rhs:  make([]float64, 0, rows),
		rows: make([]Row, 0, rows),
	}
}

func (b *builder) add(r Row, coeffs []float64, rhs float64) {
	b.a = append(b.a, coeffs)
	b.rhs = append(b.rhs, rhs)
	b.rows = append(b.rows, r)
}

func (b *builder) objective() {
	n, m := b.in.N, b.in.M
	b.c = make([]float64, n*m)
	for s := 0; s < m; s++ {
		price := b.in.Product(s).UnitPrice
		for j := 0; j < n; j++ {
			b.c[model.VarIndex(s, j, n)] = price - b.in.Component(j).UnitCost
		}
	}
}

// quality forces the blended value of each characteristic into
// [lower, upper]: Σ(lower-q)x ≤ 0 and Σ(q-upper)x ≤ 0.
func (b *builder) quality() {
	in := b.in
	for s := 0; s < in.M; s++ {
		for i := 0; i < in.L; i++ {
			lo := make([]float64, in.NumVars())
			up := make([]float64, in.NumVars())
			for j := 0; j < in.N; j++ {
				idx := model.VarIndex(s, j, in.N)
				q := in.ComponentQuality[j][i]
				lo[idx] = in.LowerBounds[s][i] - q
				up[idx] = q - in.UpperBounds[s][i]
			}
			b.add(Row{Kind: QualityLower, Product: s, Component: -1, Characteristic: i}, lo, 0)
			b.add(Row{Kind: QualityUpper, Product: s, Component: -1, Characteristic: i}, up, 0)
		}
	}
}

func (b *builder) components() {
	in := b.in
	for j := 0; j < in.N; j++ {
		cc := in.Component(j)
		up := make([]float64, in.NumVars())
		lo := make([]float64, in.NumVars())
		for s := 0; s < in.M; s++ {
			idx := model.VarIndex(s, j, in.N)
			up[idx] = 1
			lo[idx] = -1
		}
		available := cc.Supply + cc.Stock
		b.add(Row{Kind: ComponentUpper, Product: -1, Component: j, Characteristic: -1}, up, available)
		b.add(Row{Kind: ComponentLower, Product: -1, Component: j, Characteristic: -1}, lo, -floor(available-cc.ParkVolume))
	}
}

func (b *builder) products() {
	in := b.in
	for s := 0; s < in.M; s++ {
		pc := in.Product(s)
		up := make([]float64, in.NumVars())
		lo := make([]float64, in.NumVars())
		for j := 0; j < in.N; j++ {
			idx := model.VarIndex(s, j, in.N)
			up[idx] = 1
			lo[idx] = -1
		}
		b.add(Row{Kind: ProductUpper, Product: s, Component: -1, Characteristic: -1}, up, pc.PlannedSupply-pc.Stock+pc.ParkVolume)
		b.add(Row{Kind: ProductLower, Product: s, Component: -1, Characteristic: -1}, lo, -floor(pc.PlannedSupply-pc.Stock))
	}
}

// floor clamps a required minimum at zero; a negative minimum means none.
func floor(v float64) float64 { return math.Max(v, 0) }
