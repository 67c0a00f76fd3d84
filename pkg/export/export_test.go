package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/kilianp07/blendplan/core/model"
)

func samplePlan() model.Plan {
	p := model.NewPlan(2, 1, []float64{20, 10}, 1600.005)
	p.RunID = "r1"
	p.CreatedAt = time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	return p
}

func sampleInput() model.ProblemInput {
	return model.ProblemInput{
		N: 2, M: 1, L: 1,
		LowerBounds:          [][]float64{{80}},
		UpperBounds:          [][]float64{{95}},
		ComponentQuality:     [][]float64{{70}, {100}},
		ProductConstraints:   [][]float64{{30, 30, 30, 100}},
		ComponentConstraints: [][]float64{{20, 40, 0, 40}, {20, 40, 0, 60}},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, samplePlan()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got model.Plan
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RunID != "r1" || got.Allocation[1][0] != 10 {
		t.Fatalf("unexpected plan %+v", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, samplePlan()); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "component,product,quantity\n1,1,20\n2,1,10\n"
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s", buf.String())
	}
}

func TestWriteLatex(t *testing.T) {
	var buf bytes.Buffer
	plan := samplePlan()
	if err := WriteLatex(&buf, sampleInput(), &plan); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`\date{2026-03-04}`,
		`\item Components (n): 2`,
		`Product 1 & 30 & 30 & 30 & 100 \\`,
		`Component 2 & 20 & 40 & 0 & 60 \\`,
		`Component 1 & 20.000 \\`,
		`Component 2 & 10.000 \\`,
		`30.000 \\`,
		`\textbf{1600.01}`,
		`\end{document}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in report:\n%s", want, out)
		}
	}
}

func TestWriteLatex_InputOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLatex(&buf, sampleInput(), nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Contains(buf.String(), "Optimization results") {
		t.Fatalf("results section rendered without a plan")
	}
}

func TestWriteChart(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteChart(&buf, samplePlan()); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Product output", "Component 1", "Product 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in chart html", want)
		}
	}
}
