// Package charts renders bar charts, line charts and tables to images.
//
// Bar and line charts are built with gonum/plot; tables are drawn directly
// with gg. Every renderer returns an in-memory image so nothing touches disk
// until the whole render succeeded.
package charts

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"docviz/internal/features/palette"
	"docviz/internal/infra/errs"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	titleFontSize = 16.0
	labelFontSize = 12.0
	tickFontSize  = 10.0
	valueFontSize = 9.0
)

var (
	gridColor = color.RGBA{R: 0xDE, G: 0xE2, B: 0xE6, A: 0xFF}
	textColor = color.RGBA{R: 0x34, G: 0x3A, B: 0x40, A: 0xFF}
	mutedText = color.RGBA{R: 0x86, G: 0x8E, B: 0x96, A: 0xFF}
)

// Canvas is the physical size of a chart image.
type Canvas struct {
	Width  float64 // inches
	Height float64 // inches
	DPI    int
}

func (c Canvas) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errs.New(errs.CodeInvalidInput, "chart size must be positive, got %gx%g in", c.Width, c.Height)
	}
	if c.DPI <= 0 {
		return errs.New(errs.CodeInvalidInput, "dpi must be positive, got %d", c.DPI)
	}
	return nil
}

// Pixels returns the raster size of the canvas.
func (c Canvas) Pixels() (int, int) {
	return int(math.Round(c.Width * float64(c.DPI))), int(math.Round(c.Height * float64(c.DPI)))
}

// Labels shared by the plot-based charts.
type Labels struct {
	Title  string
	XLabel string
	YLabel string
}

// newPlot applies the house style: white background, dark title, muted axes.
func newPlot(l Labels) *plot.Plot {
	p := plot.New()
	p.BackgroundColor = color.White

	p.Title.Text = l.Title
	p.Title.TextStyle.Font.Size = vg.Points(titleFontSize)
	p.Title.TextStyle.Color = textColor
	p.Title.Padding = vg.Points(10)

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Font.Size = vg.Points(labelFontSize)
		ax.Label.TextStyle.Color = textColor
		ax.Tick.Label.Font.Size = vg.Points(tickFontSize)
		ax.Tick.Label.Color = textColor
		ax.LineStyle.Color = mutedText
		ax.Tick.LineStyle.Color = mutedText
	}
	p.X.Label.Text = l.XLabel
	p.Y.Label.Text = l.YLabel
	return p
}

// drawPlot rasterizes p onto a canvas of the requested size.
func drawPlot(p *plot.Plot, c Canvas) image.Image {
	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(c.Width)*vg.Inch, vg.Length(c.Height)*vg.Inch),
		vgimg.UseDPI(c.DPI),
		vgimg.UseBackgroundColor(color.White),
	)
	p.Draw(draw.New(img))
	return img.Image()
}

// FormatValue renders a bar annotation: printf layout when given, otherwise
// integers without decimals and everything else with up to two.
func FormatValue(v float64, layout string) string {
	if layout != "" {
		return fmt.Sprintf(layout, v)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return groupThousands(strconv.FormatFloat(v, 'f', 0, 64))
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func seriesColors(base palette.Entry, n int) []color.Color {
	hexes := palette.Sequence(base.Name, n)
	out := make([]color.Color, len(hexes))
	for i, h := range hexes {
		out[i] = palette.HexColor(h)
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
