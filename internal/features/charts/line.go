package charts

import (
	"image"

	"docviz/internal/features/dataset"
	"docviz/internal/features/palette"
	logging "docviz/internal/infra/log"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	lineWidth    = 2.0
	markerRadius = 3.0
	fillAlpha    = 90
)

// LineRequest is everything needed to draw one line chart.
type LineRequest struct {
	Labels
	Canvas
	Data    *dataset.SeriesSet
	Color   palette.Entry // first series; later series rotate through the palette
	Markers bool
	Fill    bool
}

// lineLayout records decisions made while building the plot.
type lineLayout struct {
	Legend bool
	Filled bool
}

// RenderLine draws one line per series.
func RenderLine(req LineRequest) (image.Image, error) {
	p, _, err := buildLinePlot(req)
	if err != nil {
		return nil, err
	}
	return drawPlot(p, req.Canvas), nil
}

func buildLinePlot(req LineRequest) (*plot.Plot, lineLayout, error) {
	var layout lineLayout
	if err := req.Canvas.validate(); err != nil {
		return nil, layout, err
	}
	if err := req.Data.Validate(); err != nil {
		return nil, layout, err
	}

	p := newPlot(req.Labels)
	grid := plotter.NewGrid()
	grid.Horizontal.Color = gridColor
	grid.Vertical.Color = gridColor
	p.Add(grid)

	series := req.Data.Series
	colors := seriesColors(req.Color, len(series))
	layout.Legend = len(series) > 1

	fill := req.Fill
	if fill && len(series) > 1 {
		logging.LogWarn("--fill only applies to a single series, ignoring", zap.Int("series", len(series)))
		fill = false
	}

	for i, s := range series {
		pts := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			pts[j] = plotter.XY{X: float64(j), Y: v}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, layout, err
		}
		line.Color = colors[i]
		line.Width = vg.Points(lineWidth)
		if fill {
			line.FillColor = palette.WithAlpha(req.Color.Color(palette.Primary), fillAlpha)
			layout.Filled = true
		}
		p.Add(line)

		thumbs := []plot.Thumbnailer{line}
		if req.Markers {
			sc, err := plotter.NewScatter(pts)
			if err != nil {
				return nil, layout, err
			}
			sc.GlyphStyle = draw.GlyphStyle{
				Color:  colors[i],
				Radius: vg.Points(markerRadius),
				Shape:  draw.CircleGlyph{},
			}
			p.Add(sc)
			thumbs = append(thumbs, sc)
		}
		if layout.Legend {
			p.Legend.Add(s.Name, thumbs...)
		}
	}

	p.NominalX(req.Data.Labels...)
	p.X.Min = -0.5
	p.X.Max = float64(len(req.Data.Labels)) - 0.5
	if p.Y.Min == p.Y.Max {
		p.Y.Min--
		p.Y.Max++
	}
	if layout.Legend {
		p.Legend.Top = true
		p.Legend.TextStyle.Font.Size = vg.Points(tickFontSize)
		p.Legend.TextStyle.Color = textColor
	}
	return p, layout, nil
}
