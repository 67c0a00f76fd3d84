// Package scenarios runs YAML regression scenarios through the planner.
package scenarios

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/blendplan/core/model"
	"github.com/kilianp07/blendplan/core/planner"
)

// Expected describes the outcome a scenario asserts. Nil fields are not
// checked.
type Expected struct {
	Status        string    `yaml:"status"`
	Backend       string    `yaml:"backend,omitempty"`
	Profit        *float64  `yaml:"profit,omitempty"`
	Iterations    *int      `yaml:"iterations,omitempty"`
	Variables     []float64 `yaml:"variables,omitempty"`
	ProductOutput []float64 `yaml:"product_output,omitempty"`
	Tolerance     float64   `yaml:"tolerance,omitempty"`
}

type Scenario struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Solver      planner.Config     `yaml:"solver"`
	Problem     model.ProblemInput `yaml:"problem"`
	Expected    Expected           `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}
	if sc.Expected.Status == "" {
		sc.Expected.Status = "ok"
	}
	if sc.Expected.Tolerance == 0 {
		sc.Expected.Tolerance = 1e-6
	}
	sc.Solver.SetDefaults()
	if err := sc.Solver.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &sc, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	out := make([]*Scenario, 0, len(files))
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}
