// Package export renders plans for people and other tools: JSON, CSV, a
// LaTeX report and an HTML chart.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/blendplan/core/model"
)

// WriteJSON writes the plan to w in JSON format.
func WriteJSON(w io.Writer, plan model.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// WriteCSV writes one row per allocation cell with 1-based component and
// product numbers.
func WriteCSV(w io.Writer, plan model.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"component", "product", "quantity"}); err != nil {
		return err
	}
	for j, row := range plan.Allocation {
		for s, q := range row {
			rec := []string{
				strconv.Itoa(j + 1),
				strconv.Itoa(s + 1),
				strconv.FormatFloat(q, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
