package dataset

import (
	"fmt"
	"os"

	"docviz/internal/infra/errs"

	"github.com/xuri/excelize/v2"
)

func readXLSX(path, sheet string) (*grid, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.CodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, errs.Wrap(errs.CodeInvalidInput, err, "failed to read %s", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidInput, err, "invalid workbook %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errs.New(errs.CodeEmptyInput, "%s has no sheets", path)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, errs.New(errs.CodeMissingColumn, "sheet %q not found in %s (available: %v)", sheet, path, sheets)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidInput, err, "failed to read sheet %q", sheet)
	}
	return newGrid(fmt.Sprintf("%s[%s]", path, sheet), rows)
}

// LoadSeriesXLSX is LoadSeriesCSV for a workbook sheet ("" = first sheet).
func LoadSeriesXLSX(path, sheet, labelCol string, valueCols []string, mode ValueMode) (*SeriesSet, error) {
	g, err := readXLSX(path, sheet)
	if err != nil {
		return nil, err
	}
	set, err := g.series(labelCol, valueCols, mode)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return set, nil
}

// LoadTableXLSX reads a workbook sheet as table rows.
func LoadTableXLSX(path, sheet string) (*Table, error) {
	g, err := readXLSX(path, sheet)
	if err != nil {
		return nil, err
	}
	return g.table()
}
