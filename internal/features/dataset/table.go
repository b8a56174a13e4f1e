package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Row maps column name to display text.
type Row map[string]string

// Table is the normalized shape for the table tool. All rows share Columns.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether name is one of the columns.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnName(name) != ""
}

// ColumnName returns the column matching name (exact first, then case-insensitive), or "".
func (t *Table) ColumnName(name string) string {
	if i := columnIndex(t.Columns, name); i >= 0 {
		return t.Columns[i]
	}
	return ""
}

// Numeric parses a cell as a finite number; thousands separators and a trailing % are tolerated.
func Numeric(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Truncate shortens s to at most max runes, ending in "..." when cut.
// max <= 0 disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
