package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"docviz/internal/infra/errs"
)

// grid is a header plus data rows from any tabular file.
type grid struct {
	source string
	header []string
	rows   [][]string
}

func readCSV(path string) (*grid, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidInput, err, "invalid CSV %s", path)
	}
	return newGrid(path, records)
}

func newGrid(source string, records [][]string) (*grid, error) {
	// drop fully blank lines (trailing newlines in spreadsheets exports)
	kept := records[:0]
	for _, rec := range records {
		if strings.TrimSpace(strings.Join(rec, "")) != "" {
			kept = append(kept, rec)
		}
	}
	if len(kept) == 0 {
		return nil, errs.New(errs.CodeEmptyInput, "%s is empty", source)
	}
	header := make([]string, len(kept[0]))
	for i, h := range kept[0] {
		header[i] = strings.TrimSpace(h)
	}
	if len(kept) == 1 {
		return nil, errs.New(errs.CodeEmptyInput, "%s has a header but no data rows", source)
	}
	return &grid{source: source, header: header, rows: kept[1:]}, nil
}

func (g *grid) cell(row []string, col int) string {
	if col < len(row) {
		return strings.TrimSpace(row[col])
	}
	return ""
}

// series picks the label and value columns and coerces values to numbers.
func (g *grid) series(labelCol string, valueCols []string, mode ValueMode) (*SeriesSet, error) {
	labelIdx := 0
	if labelCol != "" {
		if labelIdx = columnIndex(g.header, labelCol); labelIdx < 0 {
			return nil, missingColumn(labelCol, g.header)
		}
	}

	var valueIdx []int
	if len(valueCols) > 0 {
		for _, name := range valueCols {
			i := columnIndex(g.header, name)
			if i < 0 {
				return nil, missingColumn(name, g.header)
			}
			valueIdx = append(valueIdx, i)
		}
	} else {
		for i := range g.header {
			if i == labelIdx {
				continue
			}
			valueIdx = append(valueIdx, i)
			if mode == FirstRemaining {
				break
			}
		}
	}
	if len(valueIdx) == 0 {
		return nil, errs.New(errs.CodeMissingColumn, "%s has no value column besides %q", g.source, g.header[labelIdx])
	}

	set := &SeriesSet{Labels: make([]string, 0, len(g.rows))}
	for _, i := range valueIdx {
		set.Series = append(set.Series, Series{Name: g.header[i], Values: make([]float64, 0, len(g.rows))})
	}
	for r, row := range g.rows {
		set.Labels = append(set.Labels, g.cell(row, labelIdx))
		for s, i := range valueIdx {
			v, err := parseNumber(g.cell(row, i))
			if err != nil {
				// r+2: 1-based, after the header line
				return nil, rowError(g.source, r+2, "column %q: %v", g.header[i], err)
			}
			set.Series[s].Values = append(set.Series[s].Values, v)
		}
	}
	return set, nil
}

func (g *grid) table() (*Table, error) {
	t := &Table{Columns: g.header}
	seen := make(map[string]bool, len(g.header))
	for _, h := range g.header {
		if seen[h] {
			return nil, errs.New(errs.CodeInvalidInput, "%s has duplicate column %q", g.source, h)
		}
		seen[h] = true
	}
	for _, row := range g.rows {
		r := make(Row, len(g.header))
		for i, h := range g.header {
			r[h] = g.cell(row, i)
		}
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

// LoadSeriesCSV reads a CSV file as series. Without labelCol the first column
// holds labels; without valueCols mode decides which columns become series.
func LoadSeriesCSV(path, labelCol string, valueCols []string, mode ValueMode) (*SeriesSet, error) {
	g, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	set, err := g.series(labelCol, valueCols, mode)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return set, nil
}

// LoadTableCSV reads a CSV file as table rows.
func LoadTableCSV(path string) (*Table, error) {
	g, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	return g.table()
}
