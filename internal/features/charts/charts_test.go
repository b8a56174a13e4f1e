package charts

import (
	"bytes"
	"image/png"
	"testing"

	"docviz/internal/features/dataset"
	"docviz/internal/features/palette"
	"docviz/internal/infra/errs"
	"docviz/internal/infra/fs"
	logging "docviz/internal/infra/log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testCanvas = Canvas{Width: 4, Height: 3, DPI: 50}

func coral(t *testing.T) palette.Entry {
	t.Helper()
	e, ok := palette.Lookup("coral")
	if !ok {
		t.Fatal("coral missing from palette")
	}
	return e
}

func countsTable() *dataset.Table {
	return &dataset.Table{
		Columns: []string{"Name", "Count"},
		Rows: []dataset.Row{
			{"Name": "alpha", "Count": "5"},
			{"Name": "beta", "Count": "9"},
			{"Name": "gamma", "Count": "3"},
		},
	}
}

func nonFiniteTable() *dataset.Table {
	return &dataset.Table{
		Columns: []string{"Name", "Count"},
		Rows: []dataset.Row{
			{"Name": "a", "Count": "NaN"},
			{"Name": "b", "Count": "9"},
			{"Name": "c", "Count": "+Inf"},
			{"Name": "d", "Count": "3"},
			{"Name": "e", "Count": "-inf"},
		},
	}
}

func TestSelectRow(t *testing.T) {
	tests := []struct {
		name string
		tbl  *dataset.Table
		rule string
		want int
	}{
		{"max", countsTable(), "max:Count", 1},
		{"min", countsTable(), "min:Count", 2},
		{"case-insensitive column", countsTable(), "MAX:count", 1},
		{"plain value", countsTable(), "gamma", 2},
		{"plain value without match", countsTable(), "delta", -1},
		{"empty rule", countsTable(), "", -1},
		{
			"ties pick lowest index",
			&dataset.Table{
				Columns: []string{"Name", "Count"},
				Rows: []dataset.Row{
					{"Name": "a", "Count": "2"},
					{"Name": "b", "Count": "7"},
					{"Name": "c", "Count": "7"},
				},
			},
			"max:Count", 1,
		},
		{
			"non-numeric cells skipped",
			&dataset.Table{
				Columns: []string{"Name", "Count"},
				Rows: []dataset.Row{
					{"Name": "a", "Count": "n/a"},
					{"Name": "b", "Count": "1,200"},
					{"Name": "c", "Count": "900"},
				},
			},
			"max:Count", 1,
		},
		{"non-finite cells skipped for max", nonFiniteTable(), "max:Count", 1},
		{"non-finite cells skipped for min", nonFiniteTable(), "min:Count", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectRow(tt.tbl, tt.rule)
			if err != nil {
				t.Fatalf("SelectRow: %v", err)
			}
			if got != tt.want {
				t.Errorf("SelectRow(%q) = %d, want %d", tt.rule, got, tt.want)
			}
		})
	}
}

func TestSelectRowErrors(t *testing.T) {
	if _, err := SelectRow(countsTable(), "max:Missing"); !errs.Is(err, errs.CodeMissingColumn) {
		t.Errorf("missing column: got %v", err)
	}
	if _, err := SelectRow(countsTable(), "min:Name"); !errs.Is(err, errs.CodeInvalidInput) {
		t.Errorf("non-numeric column: got %v", err)
	}
}

func TestRenderBarSize(t *testing.T) {
	for _, horizontal := range []bool{false, true} {
		img, err := RenderBar(BarRequest{
			Labels:     Labels{Title: "Sales"},
			Canvas:     testCanvas,
			Data:       &dataset.SeriesSet{Labels: []string{"a", "b", "c"}, Series: []dataset.Series{{Name: "v", Values: []float64{3, -1, 7}}}},
			Color:      coral(t),
			Horizontal: horizontal,
			ShowValues: true,
		})
		if err != nil {
			t.Fatalf("RenderBar(horizontal=%v): %v", horizontal, err)
		}
		w, h := testCanvas.Pixels()
		if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
			t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), w, h)
		}
	}
}

func TestRenderBarRejectsEmpty(t *testing.T) {
	_, err := RenderBar(BarRequest{Canvas: testCanvas, Data: &dataset.SeriesSet{}, Color: coral(t)})
	if !errs.Is(err, errs.CodeEmptyInput) {
		t.Fatalf("got %v, want EMPTY_INPUT", err)
	}
}

func threeSeries() *dataset.SeriesSet {
	return &dataset.SeriesSet{
		Labels: []string{"Q1", "Q2", "Q3", "Q4"},
		Series: []dataset.Series{
			{Name: "north", Values: []float64{1, 3, 2, 5}},
			{Name: "south", Values: []float64{2, 2, 4, 3}},
			{Name: "west", Values: []float64{0, 1, 1, 2}},
		},
	}
}

func TestLineLegendOnlyForMultipleSeries(t *testing.T) {
	_, layout, err := buildLinePlot(LineRequest{Canvas: testCanvas, Data: threeSeries(), Color: coral(t), Markers: true})
	if err != nil {
		t.Fatalf("buildLinePlot: %v", err)
	}
	if !layout.Legend {
		t.Error("three series should have a legend")
	}

	single := &dataset.SeriesSet{Labels: []string{"a", "b"}, Series: []dataset.Series{{Name: "v", Values: []float64{1, 2}}}}
	_, layout, err = buildLinePlot(LineRequest{Canvas: testCanvas, Data: single, Color: coral(t), Fill: true})
	if err != nil {
		t.Fatalf("buildLinePlot: %v", err)
	}
	if layout.Legend {
		t.Error("single series should not have a legend")
	}
	if !layout.Filled {
		t.Error("single series with fill should be filled")
	}
}

func TestLineFillIgnoredForMultipleSeries(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := logging.Swap(zap.New(core), zap.NewNop())
	defer restore()

	_, layout, err := buildLinePlot(LineRequest{Canvas: testCanvas, Data: threeSeries(), Color: coral(t), Fill: true})
	if err != nil {
		t.Fatalf("buildLinePlot: %v", err)
	}
	if layout.Filled {
		t.Error("fill must be ignored with more than one series")
	}
	if logs.Len() != 1 {
		t.Errorf("warnings = %d, want 1", logs.Len())
	}
}

func TestRenderLineSize(t *testing.T) {
	img, err := RenderLine(LineRequest{Labels: Labels{Title: "Trend", XLabel: "quarter"}, Canvas: testCanvas, Data: threeSeries(), Color: coral(t)})
	if err != nil {
		t.Fatalf("RenderLine: %v", err)
	}
	w, h := testCanvas.Pixels()
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), w, h)
	}
}

func TestRenderTable(t *testing.T) {
	tbl := countsTable()
	row, err := SelectRow(tbl, "max:Count")
	if err != nil {
		t.Fatal(err)
	}
	req := TableRequest{Table: tbl, Title: "Counts", Color: coral(t), DPI: 72, HighlightCol: "count", HighlightRow: row}
	img, err := RenderTable(req)
	if err != nil {
		t.Fatalf("RenderTable: %v", err)
	}
	l, err := layoutTable(req)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != l.width || b.Dy() != l.height {
		t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), l.width, l.height)
	}
	if l.highlightCol != 1 {
		t.Errorf("highlight column = %d, want 1", l.highlightCol)
	}
	if l.numeric[0] || !l.numeric[1] {
		t.Errorf("numeric = %v, want [false true]", l.numeric)
	}
}

func TestRenderTableFixedWidth(t *testing.T) {
	req := TableRequest{Table: countsTable(), Color: coral(t), DPI: 72, Width: 120, HighlightRow: -1}
	l, err := layoutTable(req)
	if err != nil {
		t.Fatal(err)
	}
	if l.width != 120 {
		t.Errorf("width = %d, want 120", l.width)
	}
	sum := 0.0
	for _, w := range l.cols {
		sum += w
	}
	if diff := sum + 2*l.margin - 120; diff > 0.01 || diff < -0.01 {
		t.Errorf("columns + margins = %.2f, want 120", sum+2*l.margin)
	}
}

func TestRenderTableTruncatesCells(t *testing.T) {
	tbl := &dataset.Table{
		Columns: []string{"Note"},
		Rows:    []dataset.Row{{"Note": "a very long note that keeps going well past the limit"}},
	}
	l, err := layoutTable(TableRequest{Table: tbl, DPI: 72, HighlightRow: -1, MaxCellWidth: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := l.cells[1][0]; got != "a very ..." {
		t.Errorf("cell = %q, want %q", got, "a very ...")
	}
}

func TestRenderTableUnknownHighlightColumn(t *testing.T) {
	_, err := RenderTable(TableRequest{Table: countsTable(), DPI: 72, HighlightCol: "Nope", HighlightRow: -1})
	if !errs.Is(err, errs.CodeMissingColumn) {
		t.Fatalf("got %v, want MISSING_COLUMN", err)
	}
}

func TestEncodeTable(t *testing.T) {
	img, err := RenderTable(TableRequest{Table: countsTable(), Color: coral(t), DPI: 72, HighlightRow: -1})
	if err != nil {
		t.Fatal(err)
	}
	data, err := fs.EncodeImage(img, "out/table.png")
	if err != nil {
		t.Fatalf("EncodeImage: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("output is not a PNG: %v", err)
	}
	if _, err := fs.EncodeImage(img, "table.svgz"); !errs.Is(err, errs.CodeInvalidFormat) {
		t.Errorf("unsupported extension: got %v", err)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v      float64
		layout string
		want   string
	}{
		{42, "", "42"},
		{1234567, "", "1,234,567"},
		{-1500, "", "-1,500"},
		{3.14159, "", "3.14"},
		{2.5, "", "2.5"},
		{0.5, "%.0f%%", "0%"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.v, tt.layout); got != tt.want {
			t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.v, tt.layout, got, tt.want)
		}
	}
}
