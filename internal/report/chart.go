package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/ironsheep/part-finder/internal/detection"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 1600
	chartHeight = 900
	maxTicks    = 40
)

// AreaChartInput is what AreaChart plots.
type AreaChartInput struct {
	Title    string
	Accepted []detection.Rect // Pre-filter set, in scan order
	MeanArea float64
	Factor   float64 // Outlier cutoff multiplier
}

// createLine creates a horizontal line at y across xvalues.
func createLine(xvalues []float64, y float64, c drawing.Color, dashed bool) chart.ContinuousSeries {
	yvalues := make([]float64, len(xvalues))
	for i := range yvalues {
		yvalues[i] = y
	}
	style := chart.Style{StrokeColor: c}
	if dashed {
		style.StrokeDashArray = []float64{5.0, 5.0}
	}
	return chart.ContinuousSeries{XValues: xvalues, YValues: yvalues, Style: style}
}

// AreaChart renders the area of every accepted part as a PNG, with the mean
// and the outlier cutoff drawn as guide lines. Parts above the cutoff are
// labelled with their index.
func AreaChart(in AreaChartInput, w io.Writer) error {
	if len(in.Accepted) == 0 {
		return errors.New("no parts to chart")
	}

	n := len(in.Accepted)
	cutoff := in.Factor * in.MeanArea

	// Pad single-part charts so the x range is never zero.
	xvalues := make([]float64, 0, n+1)
	yvalues := make([]float64, 0, n+1)
	var ticks []chart.Tick
	tickEvery := max(1, n/maxTicks)
	peak := cutoff
	var annotations []chart.Value2
	for i, r := range in.Accepted {
		x, a := float64(i+1), float64(r.Area())
		xvalues = append(xvalues, x)
		yvalues = append(yvalues, a)
		peak = max(peak, a)
		if i%tickEvery == 0 {
			ticks = append(ticks, chart.Tick{Value: x, Label: fmt.Sprintf("%d", i)})
		}
		if a >= cutoff {
			annotations = append(annotations, chart.Value2{Label: fmt.Sprintf("%d", i), XValue: x, YValue: a})
		}
	}
	if n == 1 {
		xvalues = append(xvalues, 2)
		yvalues = append(yvalues, yvalues[0])
	}

	graph := chart.Chart{
		Title:  in.Title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:  "Part (scan order)",
			Range: &chart.ContinuousRange{Min: 0, Max: xvalues[len(xvalues)-1] + 1},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Area (px²)",
			Range: &chart.ContinuousRange{Min: 0, Max: peak*1.1 + 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					FillColor:   chart.ColorAlternateBlue,
				},
				XValues: xvalues,
				YValues: yvalues,
			},
			createLine(xvalues, in.MeanArea, chart.ColorAlternateGreen, false),
			createLine(xvalues, cutoff, chart.ColorRed, true),
		},
	}
	if len(annotations) > 0 {
		graph.Series = append(graph.Series, chart.AnnotationSeries{Annotations: annotations})
	}

	return graph.Render(chart.PNG, w)
}
