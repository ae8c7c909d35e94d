package report

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	colorSev0to3 = drawing.ColorFromHex("FFA500")
	colorSev4to6 = drawing.ColorFromHex("1F77B4")
)

// TrendSeries is one line of a trend chart
type TrendSeries struct {
	Name   string
	Months []string
	Values []int
	Color  drawing.Color
}

// RenderTrend draws a month-over-month line chart as PNG
func RenderTrend(w io.Writer, title string, s TrendSeries) error {
	if len(s.Months) != len(s.Values) {
		return fmt.Errorf("trend %q: %d months but %d values", title, len(s.Months), len(s.Values))
	}
	if len(s.Months) == 0 {
		return fmt.Errorf("trend %q: no data", title)
	}

	xs := make([]float64, len(s.Values))
	ys := make([]float64, len(s.Values))
	ticks := make([]chart.Tick, len(s.Values))
	maxY := 0.0
	for i, v := range s.Values {
		xs[i] = float64(i)
		ys[i] = float64(v)
		ticks[i] = chart.Tick{Value: float64(i), Label: FormatMonth(s.Months[i])}
		maxY = math.Max(maxY, float64(v))
	}
	if maxY == 0 {
		maxY = 1
	} else {
		maxY = math.Ceil(maxY * 1.1)
	}

	// explicit ranges keep single-month and all-zero series renderable
	graph := chart.Chart{
		Title:  title,
		Width:  2000,
		Height: 500,
		XAxis: chart.XAxis{
			Name:  "Month",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(xs)) - 0.5},
		},
		YAxis: chart.YAxis{
			Name:  "Log Count",
			Range: &chart.ContinuousRange{Min: 0, Max: maxY},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: s.Name,
				Style: chart.Style{
					StrokeColor: s.Color,
					StrokeWidth: 2,
					DotColor:    s.Color,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// RenderPie draws a pie chart as PNG. Labels carry percentage and count.
func RenderPie(w io.Writer, title string, p Pie) error {
	total := p.Total()
	if total == 0 {
		return fmt.Errorf("pie %q: no data", title)
	}

	values := make([]chart.Value, 0, len(p.Slices))
	for _, s := range p.Slices {
		values = append(values, chart.Value{
			Value: float64(s.Count),
			Label: SliceLabel(s, total),
		})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  800,
		Height: 800,
		Values: values,
	}
	return pie.Render(chart.PNG, w)
}

// SliceLabel formats a wedge as "label pct% (count)"
func SliceLabel(s Slice, total int) string {
	pct := float64(s.Count) / float64(total) * 100
	return fmt.Sprintf("%s %.1f%% (%d)", s.Label, pct, s.Count)
}
