package model

import "time"

// Plan is a decoded optimal allocation.
type Plan struct {
	RunID     string    `json:"run_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	Backend   string    `json:"backend,omitempty"`
	// Allocation[j][s] is the quantity of component j used in product s.
	Allocation [][]float64 `json:"allocation"`
	// ProductOutput[s] is the total output of product s.
	ProductOutput []float64 `json:"product_output"`
	// ComponentUsage[j] is the total use of component j.
	ComponentUsage []float64 `json:"component_usage"`
	Profit         float64   `json:"profit"`
	Iterations     int       `json:"iterations"`
	// Variables is the raw solution in VarIndex order.
	Variables []float64 `json:"variables"`
}

// NewPlan decodes a flat solution vector for n components and m products.
func NewPlan(n, m int, variables []float64, profit float64) Plan {
	p := Plan{
		Allocation:     make([][]float64, n),
		ProductOutput:  make([]float64, m),
		ComponentUsage: make([]float64, n),
		Profit:         profit,
		Variables:      variables,
	}
	for j := range p.Allocation {
		p.Allocation[j] = make([]float64, m)
	}
	for s := 0; s < m; s++ {
		for j := 0; j < n; j++ {
			idx := VarIndex(s, j, n)
			if idx >= len(variables) {
				continue
			}
			v := variables[idx]
			p.Allocation[j][s] = v
			p.ProductOutput[s] += v
			p.ComponentUsage[j] += v
		}
	}
	return p
}

// Quantity returns the amount of component j used in product s.
func (p Plan) Quantity(j, s int) float64 { return p.Allocation[j][s] }
