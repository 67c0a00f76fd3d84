package planner

import (
	"fmt"

	"github.com/kilianp07/blendplan/core/lp"
)

// Backend names accepted in Config.
const (
	BackendTableau = "tableau"
	BackendGonum   = "gonum"
)

// Config defines solver-related settings.
type Config struct {
	// Backend is the primary solver, "tableau" or "gonum".
	Backend       string `json:"backend" yaml:"backend"`
	MaxIterations int    `json:"max_iterations" yaml:"max_iterations"`
	// Rule is the tableau entering rule, "dantzig" or "bland".
	Rule string `json:"rule" yaml:"rule"`
	// Epsilon is the tableau zero tolerance. Nil selects lp.DefaultEpsilon and
	// 0 compares exactly.
	Epsilon *float64 `json:"epsilon" yaml:"epsilon"`
	// Fallback names a second backend tried when the primary cannot start
	// or runs out of iterations. Empty disables it.
	Fallback string  `json:"fallback" yaml:"fallback"`
	GonumTol float64 `json:"gonum_tol" yaml:"gonum_tol"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendTableau
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = lp.DefaultMaxIterations
	}
	if c.Rule == "" {
		c.Rule = lp.Dantzig.String()
	}
	if c.Epsilon == nil {
		eps := lp.DefaultEpsilon
		c.Epsilon = &eps
	}
	if c.GonumTol == 0 {
		c.GonumTol = lp.DefaultGonumTol
	}
}

// Validate checks backend names and numeric limits.
func (c Config) Validate() error {
	if err := checkBackend(c.Backend); err != nil {
		return err
	}
	if c.Fallback != "" {
		if err := checkBackend(c.Fallback); err != nil {
			return fmt.Errorf("fallback: %w", err)
		}
		if c.Fallback == c.Backend {
			return fmt.Errorf("solver: fallback %q equals the primary backend", c.Fallback)
		}
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("solver: max_iterations must not be negative")
	}
	if c.Epsilon != nil && *c.Epsilon < 0 {
		return fmt.Errorf("solver: epsilon must not be negative")
	}
	if _, err := lp.ParsePivotRule(c.Rule); err != nil {
		return err
	}
	return nil
}

func checkBackend(name string) error {
	switch name {
	case BackendTableau, BackendGonum:
		return nil
	}
	return fmt.Errorf("solver: unknown backend %q", name)
}

// NewSolver builds the named backend from cfg.
func NewSolver(name string, cfg Config) (lp.Solver, error) {
	switch name {
	case BackendTableau:
		rule, err := lp.ParsePivotRule(cfg.Rule)
		if err != nil {
			return nil, err
		}
		opts := lp.DefaultOptions()
		opts.MaxIterations = cfg.MaxIterations
		opts.Rule = rule
		if cfg.Epsilon != nil {
			opts.Epsilon = *cfg.Epsilon
		}
		return lp.NewSimplexSolver(opts), nil
	case BackendGonum:
		return lp.GonumSolver{Tol: cfg.GonumTol}, nil
	}
	return nil, checkBackend(name)
}
