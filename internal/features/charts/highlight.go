package charts

import (
	"strings"

	"docviz/internal/features/dataset"
	"docviz/internal/infra/errs"
)

// SelectRow resolves a --highlight-row rule to a row index.
//
//	max:COL  row with the largest numeric value in COL
//	min:COL  row with the smallest numeric value in COL
//	VALUE    first row whose first column equals VALUE
//
// Ties resolve to the lowest index and non-numeric cells are skipped.
// A plain value that matches nothing returns -1 with no error.
func SelectRow(t *dataset.Table, rule string) (int, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" || len(t.Rows) == 0 {
		return -1, nil
	}

	op, col, ok := strings.Cut(rule, ":")
	op = strings.ToLower(strings.TrimSpace(op))
	if !ok || (op != "max" && op != "min") {
		if len(t.Columns) == 0 {
			return -1, nil
		}
		first := t.Columns[0]
		for i, r := range t.Rows {
			if strings.TrimSpace(r[first]) == rule {
				return i, nil
			}
		}
		return -1, nil
	}

	name := t.ColumnName(strings.TrimSpace(col))
	if name == "" {
		return -1, errs.New(errs.CodeMissingColumn, "highlight column %q not found (available: %s)", col, strings.Join(t.Columns, ", "))
	}

	best := -1
	var bestVal float64
	for i, r := range t.Rows {
		v, ok := dataset.Numeric(r[name])
		if !ok {
			continue
		}
		if best < 0 || (op == "max" && v > bestVal) || (op == "min" && v < bestVal) {
			best, bestVal = i, v
		}
	}
	if best < 0 {
		return -1, errs.New(errs.CodeInvalidInput, "column %q has no numeric values to compare", name)
	}
	return best, nil
}
