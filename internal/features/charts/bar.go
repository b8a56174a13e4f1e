package charts

import (
	"image"
	"math"

	"docviz/internal/features/dataset"
	"docviz/internal/features/palette"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	barFill          = 0.65 // share of each category slot covered by the bar
	valueLabelOffset = 4.0  // points between bar end and its value label
	valueHeadroom    = 0.12 // extra value-axis range for labels
)

// BarRequest is everything needed to draw one bar chart.
type BarRequest struct {
	Labels
	Canvas
	Data        *dataset.SeriesSet // first series is drawn
	Color       palette.Entry
	Horizontal  bool
	ShowValues  bool
	ValueFormat string
}

// RenderBar draws a single-series bar chart.
func RenderBar(req BarRequest) (image.Image, error) {
	p, err := buildBarPlot(req)
	if err != nil {
		return nil, err
	}
	return drawPlot(p, req.Canvas), nil
}

func buildBarPlot(req BarRequest) (*plot.Plot, error) {
	if err := req.Canvas.validate(); err != nil {
		return nil, err
	}
	if err := req.Data.Validate(); err != nil {
		return nil, err
	}

	labels := req.Data.Labels
	values := plotter.Values(req.Data.Series[0].Values)
	n := len(values)

	p := newPlot(req.Labels)

	// bar width from the plotting area along the category axis
	along := req.Width
	if req.Horizontal {
		along = req.Height
	}
	slot := vg.Length(along*0.8) * vg.Inch / vg.Length(n)
	bars, err := plotter.NewBarChart(values, slot*barFill)
	if err != nil {
		return nil, err
	}
	bars.Color = req.Color.Color(palette.Primary)
	bars.LineStyle.Color = req.Color.Color(palette.Dark)
	bars.LineStyle.Width = vg.Points(0.5)
	bars.Horizontal = req.Horizontal

	grid := plotter.NewGrid()
	grid.Horizontal.Color = gridColor
	grid.Vertical.Color = gridColor
	grid.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Vertical.Dashes = grid.Horizontal.Dashes
	if req.Horizontal {
		grid.Horizontal.Color = nil // value axis only
	} else {
		grid.Vertical.Color = nil
	}
	p.Add(grid, bars)

	if req.Horizontal {
		p.NominalY(labels...)
	} else {
		p.NominalX(labels...)
	}

	lo, hi := minMax(values)
	valueAxis := &p.Y
	if req.Horizontal {
		valueAxis = &p.X
	}
	span := math.Max(hi, 0) - math.Min(lo, 0)
	if span == 0 {
		span = 1
	}
	valueAxis.Min = math.Min(lo, 0)
	valueAxis.Max = math.Max(hi, 0)
	if req.ShowValues {
		if hi > 0 {
			valueAxis.Max += span * valueHeadroom
		}
		if lo < 0 {
			valueAxis.Min -= span * valueHeadroom
		}
		if err := addValueLabels(p, req, values); err != nil {
			return nil, err
		}
	}
	if valueAxis.Max == valueAxis.Min {
		valueAxis.Max = valueAxis.Min + 1
	}

	return p, nil
}

// addValueLabels annotates each bar just past its end: above (or below, for
// negatives) vertical bars and right (or left) of horizontal ones.
func addValueLabels(p *plot.Plot, req BarRequest, values plotter.Values) error {
	var pos, neg plotter.XYLabels
	for i, v := range values {
		xy := plotter.XY{X: float64(i), Y: v}
		if req.Horizontal {
			xy = plotter.XY{X: v, Y: float64(i)}
		}
		text := FormatValue(v, req.ValueFormat)
		if v < 0 {
			neg.XYs = append(neg.XYs, xy)
			neg.Labels = append(neg.Labels, text)
		} else {
			pos.XYs = append(pos.XYs, xy)
			pos.Labels = append(pos.Labels, text)
		}
	}

	for _, group := range []struct {
		data     plotter.XYLabels
		negative bool
	}{{pos, false}, {neg, true}} {
		if len(group.data.XYs) == 0 {
			continue
		}
		labels, err := plotter.NewLabels(group.data)
		if err != nil {
			return err
		}
		off := vg.Points(valueLabelOffset)
		if group.negative {
			off = -off
		}
		for i := range labels.TextStyle {
			st := &labels.TextStyle[i]
			st.Font.Size = vg.Points(valueFontSize)
			st.Color = textColor
			switch {
			case req.Horizontal && group.negative:
				st.XAlign, st.YAlign = draw.XRight, draw.YCenter
			case req.Horizontal:
				st.XAlign, st.YAlign = draw.XLeft, draw.YCenter
			case group.negative:
				st.XAlign, st.YAlign = draw.XCenter, draw.YTop
			default:
				st.XAlign, st.YAlign = draw.XCenter, draw.YBottom
			}
		}
		if req.Horizontal {
			labels.Offset = vg.Point{X: off}
		} else {
			labels.Offset = vg.Point{Y: off}
		}
		p.Add(labels)
	}
	return nil
}
