package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/blendplan/core/model"
)

// WriteChart renders an HTML bar chart of product output, stacked by
// component.
func WriteChart(w io.Writer, plan model.Plan) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Product output",
			Subtitle: fmt.Sprintf("profit %.2f", plan.Profit),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Product"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Quantity"}),
	)

	xAxis := make([]string, len(plan.ProductOutput))
	for s := range xAxis {
		xAxis[s] = fmt.Sprintf("Product %d", s+1)
	}
	bar.SetXAxis(xAxis)
	for j, row := range plan.Allocation {
		data := make([]opts.BarData, len(row))
		for s, q := range row {
			data[s] = opts.BarData{Value: q}
		}
		bar.AddSeries(fmt.Sprintf("Component %d", j+1), data,
			charts.WithBarChartOpts(opts.BarChart{Stack: "output"}))
	}

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
