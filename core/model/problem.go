package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/blendplan/core/lp"
)

// Column layout of the commercial constraint rows.
const (
	colSupply = iota
	colParkVolume
	colStock
	colPrice
	constraintCols
)

// ProblemInput is the complete description of one blending problem. Field
// names follow the interchange format verbatim.
type ProblemInput struct {
	// N is the number of components.
	N int `json:"n" yaml:"n" toml:"n" validate:"gte=1"`
	// M is the number of products.
	M int `json:"m" yaml:"m" toml:"m" validate:"gte=1"`
	// L is the number of quality characteristics.
	L int `json:"l" yaml:"l" toml:"l" validate:"gte=0"`
	// LowerBounds and UpperBounds are m×l quality bands per product.
	LowerBounds [][]float64 `json:"lowerBounds" yaml:"lowerBounds" toml:"lowerBounds"`
	UpperBounds [][]float64 `json:"upperBounds" yaml:"upperBounds" toml:"upperBounds"`
	// ComponentQuality is the n×l quality profile of each component.
	ComponentQuality [][]float64 `json:"componentQuality" yaml:"componentQuality" toml:"componentQuality"`
	// ProductConstraints rows are (plannedSupply, parkVolume, stock, unitPrice).
	ProductConstraints [][]float64 `json:"productConstraints" yaml:"productConstraints" toml:"productConstraints" validate:"dive,len=4"`
	// ComponentConstraints rows are (supply, parkVolume, stock, unitCost).
	ComponentConstraints [][]float64 `json:"componentConstraints" yaml:"componentConstraints" toml:"componentConstraints" validate:"dive,len=4"`
}

// ProductConstraint is the typed view of one productConstraints row.
type ProductConstraint struct {
	PlannedSupply float64
	ParkVolume    float64
	Stock         float64
	UnitPrice     float64
}

// ComponentConstraint is the typed view of one componentConstraints row.
type ComponentConstraint struct {
	Supply     float64
	ParkVolume float64
	Stock      float64
	UnitCost   float64
}

// Product returns the commercial attributes of product s.
func (in ProblemInput) Product(s int) ProductConstraint {
	r := in.ProductConstraints[s]
	return ProductConstraint{PlannedSupply: r[colSupply], ParkVolume: r[colParkVolume], Stock: r[colStock], UnitPrice: r[colPrice]}
}

// Component returns the commercial attributes of component j.
func (in ProblemInput) Component(j int) ComponentConstraint {
	r := in.ComponentConstraints[j]
	return ComponentConstraint{Supply: r[colSupply], ParkVolume: r[colParkVolume], Stock: r[colStock], UnitCost: r[colPrice]}
}

// NumVars returns the number of decision variables x[s,j].
func (in ProblemInput) NumVars() int { return in.N * in.M }

// ShapeError reports a matrix whose dimensions disagree with n, m or l.
type ShapeError struct {
	Field string
	// Row is the offending row, or -1 when the outer dimension is wrong.
	Row    int
	Want   int
	Got    int
	Detail string
}

func (e *ShapeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
	}
	if e.Row < 0 {
		return fmt.Sprintf("%s has %d rows, want %d", e.Field, e.Got, e.Want)
	}
	return fmt.Sprintf("%s row %d has %d columns, want %d", e.Field, e.Row, e.Got, e.Want)
}

// Unwrap lets callers match shape failures with errors.Is(err, lp.ErrShape).
func (e *ShapeError) Unwrap() error { return lp.ErrShape }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the declared sizes against every matrix.
func (in ProblemInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			detail := fe.Tag()
			if fe.Param() != "" {
				detail += "=" + fe.Param()
			}
			return &ShapeError{Field: fe.Field(), Row: -1, Detail: "failed " + detail}
		}
		return err
	}
	checks := []struct {
		field      string
		data       [][]float64
		rows, cols int
	}{
		{"lowerBounds", in.LowerBounds, in.M, in.L},
		{"upperBounds", in.UpperBounds, in.M, in.L},
		{"componentQuality", in.ComponentQuality, in.N, in.L},
		{"productConstraints", in.ProductConstraints, in.M, constraintCols},
		{"componentConstraints", in.ComponentConstraints, in.N, constraintCols},
	}
	for _, c := range checks {
		if err := checkShape(c.field, c.data, c.rows, c.cols); err != nil {
			return err
		}
	}
	return nil
}

func checkShape(field string, data [][]float64, rows, cols int) error {
	// With no characteristics an absent quality matrix is accepted.
	if cols == 0 && len(data) == 0 {
		return nil
	}
	if len(data) != rows {
		return &ShapeError{Field: field, Row: -1, Want: rows, Got: len(data)}
	}
	for i, r := range data {
		if len(r) != cols {
			return &ShapeError{Field: field, Row: i, Want: cols, Got: len(r)}
		}
	}
	return nil
}
