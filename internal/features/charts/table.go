package charts

import (
	"image"
	"image/color"
	"math"

	"docviz/internal/features/dataset"
	"docviz/internal/features/palette"
	"docviz/internal/infra/errs"

	"github.com/fogleman/gg"
)

const (
	DefaultMaxCellWidth = 30

	tableTitleSize = 16.0 // pt
	tableTextSize  = 11.0 // pt
	tableMargin    = 20.0 // pt
	cellPadX       = 10.0 // pt
	rowHeightRatio = 2.2  // row height / text height
	stripeAlpha    = 110
	rowHighlight   = 70
)

// TableRequest is everything needed to draw one table image.
type TableRequest struct {
	Table        *dataset.Table
	Title        string
	Color        palette.Entry
	Fonts        *Fonts // nil uses the embedded Go fonts
	DPI          int
	Width        int    // pixels; 0 sizes the image to its content
	HighlightCol string // column name, "" for none
	HighlightRow int    // row index, -1 for none
	MaxCellWidth int    // runes; 0 uses DefaultMaxCellWidth, <0 disables truncation
}

type tableLayout struct {
	width, height int
	margin        float64
	titleH        float64
	rowH          float64
	cols          []float64
	clip          bool
	highlightCol  int
	cells         [][]string // header first, display text after truncation
	numeric       []bool     // per column: right-align
}

// RenderTable draws the table with a primary-colored header, striped rows
// and optional row/column highlights.
func RenderTable(req TableRequest) (image.Image, error) {
	if req.Fonts == nil {
		req.Fonts = DefaultFonts()
	}
	l, err := layoutTable(req)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(l.width, l.height)
	dc.SetColor(color.White)
	dc.Clear()

	scale := float64(req.DPI) / 72
	regular := req.Fonts.Face(false, tableTextSize, req.DPI)
	bold := req.Fonts.Face(true, tableTextSize, req.DPI)

	y := l.margin
	if req.Title != "" {
		dc.SetFontFace(req.Fonts.Face(true, tableTitleSize, req.DPI))
		dc.SetColor(textColor)
		dc.DrawStringAnchored(req.Title, float64(l.width)/2, y+l.titleH/2, 0.5, 0.5)
		y += l.titleH
	}

	primary := req.Color.Color(palette.Primary)
	light := req.Color.Color(palette.Light)
	dark := req.Color.Color(palette.Dark)
	stripe := palette.WithAlpha(light, stripeAlpha)

	for r, row := range l.cells {
		header := r == 0
		dataIdx := r - 1
		rowHighlighted := !header && dataIdx == req.HighlightRow

		// row background
		x := l.margin
		for c, w := range l.cols {
			var bg color.Color
			switch {
			case header:
				bg = primary
			case c == l.highlightCol:
				bg = light
			case dataIdx%2 == 1:
				bg = stripe
			}
			if bg != nil {
				dc.SetColor(bg)
				dc.DrawRectangle(x, y, w, l.rowH)
				dc.Fill()
			}
			x += w
		}
		if rowHighlighted {
			dc.SetColor(palette.WithAlpha(primary, rowHighlight))
			dc.DrawRectangle(l.margin, y, float64(l.width)-2*l.margin, l.rowH)
			dc.Fill()
		}

		// cell text
		x = l.margin
		for c, w := range l.cols {
			fg := color.Color(textColor)
			face := regular
			switch {
			case header:
				fg, face = color.White, bold
			case c == l.highlightCol:
				fg = dark
			}
			if rowHighlighted {
				face = bold
			}
			dc.SetFontFace(face)
			dc.SetColor(fg)

			pad := cellPadX * scale
			if l.clip {
				dc.DrawRectangle(x, y, w, l.rowH)
				dc.Clip()
			}
			if l.numeric[c] && !header {
				dc.DrawStringAnchored(row[c], x+w-pad, y+l.rowH/2, 1, 0.35)
			} else {
				dc.DrawStringAnchored(row[c], x+pad, y+l.rowH/2, 0, 0.35)
			}
			if l.clip {
				dc.ResetClip()
			}
			x += w
		}

		if !header {
			dc.SetColor(gridColor)
			dc.SetLineWidth(math.Max(1, scale/2))
			dc.DrawLine(l.margin, y+l.rowH, float64(l.width)-l.margin, y+l.rowH)
			dc.Stroke()
		}
		y += l.rowH
	}

	return dc.Image(), nil
}

func layoutTable(req TableRequest) (*tableLayout, error) {
	t := req.Table
	if t == nil || len(t.Columns) == 0 {
		return nil, errs.New(errs.CodeEmptyInput, "table has no columns")
	}
	if len(t.Rows) == 0 {
		return nil, errs.New(errs.CodeEmptyInput, "table has no rows")
	}
	if req.DPI <= 0 {
		return nil, errs.New(errs.CodeInvalidInput, "dpi must be positive, got %d", req.DPI)
	}
	if req.HighlightRow >= len(t.Rows) {
		return nil, errs.New(errs.CodeInvalidInput, "highlight row %d out of range (%d rows)", req.HighlightRow, len(t.Rows))
	}

	l := &tableLayout{highlightCol: -1}
	if req.HighlightCol != "" {
		name := t.ColumnName(req.HighlightCol)
		if name == "" {
			return nil, errs.New(errs.CodeMissingColumn, "highlight column %q not found", req.HighlightCol)
		}
		for i, c := range t.Columns {
			if c == name {
				l.highlightCol = i
			}
		}
	}

	maxRunes := req.MaxCellWidth
	if maxRunes == 0 {
		maxRunes = DefaultMaxCellWidth
	}

	// numeric columns: every non-empty cell parses as a number
	l.numeric = make([]bool, len(t.Columns))
	for c, name := range t.Columns {
		seen := false
		numeric := true
		for _, r := range t.Rows {
			cell := r[name]
			if cell == "" {
				continue
			}
			seen = true
			if _, ok := dataset.Numeric(cell); !ok {
				numeric = false
				break
			}
		}
		l.numeric[c] = seen && numeric
	}

	l.cells = make([][]string, 0, len(t.Rows)+1)
	header := make([]string, len(t.Columns))
	for c, name := range t.Columns {
		header[c] = dataset.Truncate(name, maxRunes)
	}
	l.cells = append(l.cells, header)
	for _, r := range t.Rows {
		row := make([]string, len(t.Columns))
		for c, name := range t.Columns {
			row[c] = dataset.Truncate(r[name], maxRunes)
		}
		l.cells = append(l.cells, row)
	}

	fonts := req.Fonts
	if fonts == nil {
		fonts = DefaultFonts()
	}
	scale := float64(req.DPI) / 72
	l.margin = tableMargin * scale

	measure := gg.NewContext(1, 1)
	regular := fonts.Face(false, tableTextSize, req.DPI)
	bold := fonts.Face(true, tableTextSize, req.DPI)

	l.cols = make([]float64, len(t.Columns))
	var textH float64
	for r, row := range l.cells {
		if r == 0 || r-1 == req.HighlightRow {
			measure.SetFontFace(bold)
		} else {
			measure.SetFontFace(regular)
		}
		for c, s := range row {
			w, h := measure.MeasureString(s)
			l.cols[c] = math.Max(l.cols[c], w+2*cellPadX*scale)
			textH = math.Max(textH, h)
		}
	}
	if textH == 0 {
		textH = tableTextSize * scale
	}
	l.rowH = math.Ceil(textH * rowHeightRatio)

	if req.Title != "" {
		measure.SetFontFace(fonts.Face(true, tableTitleSize, req.DPI))
		_, h := measure.MeasureString(req.Title)
		l.titleH = math.Ceil(h * 2.4)
	}

	natural := 0.0
	for _, w := range l.cols {
		natural += w
	}
	if req.Width > 0 {
		avail := float64(req.Width) - 2*l.margin
		if avail <= 0 {
			return nil, errs.New(errs.CodeInvalidInput, "table width %dpx is too small", req.Width)
		}
		k := avail / natural
		for i := range l.cols {
			l.cols[i] *= k
		}
		l.clip = k < 1
		l.width = req.Width
	} else {
		l.width = int(math.Ceil(natural + 2*l.margin))
	}
	l.height = int(math.Ceil(2*l.margin + l.titleH + l.rowH*float64(len(l.cells))))
	return l, nil
}
