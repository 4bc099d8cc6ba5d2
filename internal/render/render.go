// Package render draws chart specifications as SVG documents using go-chart.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/leapstack-labs/launchdash/pkg/core"
)

// ErrNoData is returned for a specification with nothing to draw:
// a scatter chart without points or a proportion chart whose segments sum to zero.
var ErrNoData = errors.New("no data to chart")

// Scatter y axis bounds. Outcome classes are 0 and 1; the margin keeps dots off the frame.
const (
	scatterYMin = -0.25
	scatterYMax = 1.25
)

// Options controls the output size.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions returns the size used by the dashboard.
func DefaultOptions() Options {
	return Options{Width: 640, Height: 420}
}

// SVG renders spec with DefaultOptions.
func SVG(spec core.ChartSpec) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, spec, DefaultOptions()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders spec as SVG into w.
func Write(w io.Writer, spec core.ChartSpec, opts Options) error {
	if spec.Empty() {
		return ErrNoData
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}

	switch spec.Kind {
	case core.ChartPie:
		return writePie(w, spec, opts)
	case core.ChartScatter:
		return writeScatter(w, spec, opts)
	default:
		return fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
}

func writePie(w io.Writer, spec core.ChartSpec, opts Options) error {
	values := make([]chart.Value, 0, len(spec.Segments))
	for i, s := range spec.Segments {
		values = append(values, chart.Value{
			Label: s.Label,
			Value: s.Value,
			Style: chart.Style{FillColor: chart.GetDefaultColor(i)},
		})
	}

	pie := chart.PieChart{
		Title:  spec.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Values: values,
	}
	if err := pie.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render %q: %w", spec.Title, err)
	}
	return nil
}

func writeScatter(w io.Writer, spec core.ChartSpec, opts Options) error {
	groups := spec.Groups()
	series := make([]chart.Series, 0, len(groups))
	for i, g := range groups {
		var xs, ys []float64
		for _, p := range spec.Points {
			if p.Group != g {
				continue
			}
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    g,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(chart.GetDefaultColor(i)),
		})
	}

	lo, hi := xBounds(spec)
	ch := chart.Chart{
		Title:  spec.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  spec.XLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		YAxis: chart.YAxis{
			Name:  spec.YLabel,
			Range: &chart.ContinuousRange{Min: scatterYMin, Max: scatterYMax},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render %q: %w", spec.Title, err)
	}
	return nil
}

// pointStyle draws dots only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

// xBounds returns the x axis range: the filter window when known, otherwise
// the extent of the points. A zero-width range is widened by half a slider step.
func xBounds(spec core.ChartSpec) (lo, hi float64) {
	if spec.XRange != nil {
		lo, hi = spec.XRange.Low, spec.XRange.High
	} else {
		lo, hi = spec.Points[0].X, spec.Points[0].X
		for _, p := range spec.Points {
			lo = min(lo, p.X)
			hi = max(hi, p.X)
		}
	}
	if hi <= lo {
		pad := core.PayloadSliderStep / 2
		lo, hi = lo-pad, lo+pad
	}
	return lo, hi
}
