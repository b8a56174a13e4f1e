// Package dataset loads chart and table input from inline JSON, CSV and XLSX
// and normalizes it into SeriesSet (labels + numeric series) or Table (rows).
//
// Every file is read fully into memory before it is parsed. Failures are
// returned as coded input errors (see internal/infra/errs) and never produce
// partial data.
package dataset

import (
	"fmt"
	"os"
	"strings"

	"docviz/internal/infra/errs"
)

// Kind tags the variant held by a Source.
type Kind int

const (
	InlineJSON Kind = iota + 1
	MultiSeriesJSON
	CSVPath
	XLSXPath
)

func (k Kind) String() string {
	switch k {
	case InlineJSON:
		return "json"
	case MultiSeriesJSON:
		return "series-json"
	case CSVPath:
		return "csv"
	case XLSXPath:
		return "xlsx"
	}
	return "unknown"
}

// ValueMode picks the value columns of a tabular file when none are named.
type ValueMode int

const (
	// FirstRemaining uses the column right after the label column.
	FirstRemaining ValueMode = iota
	// AllRemaining uses every column except the label column.
	AllRemaining
)

// Source is the data source selected on the command line.
// Payload is JSON text for the JSON kinds and a file path otherwise.
type Source struct {
	Kind         Kind
	Payload      string
	LabelColumn  string
	ValueColumns []string
	Sheet        string
}

// SourceFromFlags builds a Source from mutually exclusive flag values.
// Exactly one of them must be non-empty.
func SourceFromFlags(inline, multi, csvPath, xlsxPath string) (Source, error) {
	var picked []Source
	if inline != "" {
		picked = append(picked, Source{Kind: InlineJSON, Payload: inline})
	}
	if multi != "" {
		picked = append(picked, Source{Kind: MultiSeriesJSON, Payload: multi})
	}
	if csvPath != "" {
		picked = append(picked, Source{Kind: CSVPath, Payload: csvPath})
	}
	if xlsxPath != "" {
		picked = append(picked, Source{Kind: XLSXPath, Payload: xlsxPath})
	}

	switch len(picked) {
	case 0:
		return Source{}, errs.New(errs.CodeInvalidInput, "no data source given")
	case 1:
		return picked[0], nil
	}
	kinds := make([]string, len(picked))
	for i, s := range picked {
		kinds[i] = s.Kind.String()
	}
	return Source{}, errs.New(errs.CodeInvalidInput, "only one data source allowed, got %s", strings.Join(kinds, ", "))
}

// Series is one named sequence of values aligned with SeriesSet.Labels.
type Series struct {
	Name   string
	Values []float64
}

// SeriesSet is the normalized shape for bar and line charts.
type SeriesSet struct {
	Labels []string
	Series []Series
}

// Validate checks that there is data and every series matches the labels.
func (s *SeriesSet) Validate() error {
	if len(s.Labels) == 0 {
		return errs.New(errs.CodeEmptyInput, "no data points")
	}
	if len(s.Series) == 0 {
		return errs.New(errs.CodeEmptyInput, "no value series")
	}
	for _, ser := range s.Series {
		if len(ser.Values) != len(s.Labels) {
			return errs.New(errs.CodeInvalidInput, "series %q has %d values for %d labels", ser.Name, len(ser.Values), len(s.Labels))
		}
	}
	return nil
}

// Load reads src as series data.
func Load(src Source, mode ValueMode) (*SeriesSet, error) {
	var (
		set *SeriesSet
		err error
	)
	switch src.Kind {
	case InlineJSON:
		raw, rerr := jsonPayload(src.Payload)
		if rerr != nil {
			return nil, rerr
		}
		set, err = ParseSeriesJSON(raw)
	case MultiSeriesJSON:
		raw, rerr := jsonPayload(src.Payload)
		if rerr != nil {
			return nil, rerr
		}
		set, err = ParseMultiSeriesJSON(raw)
	case CSVPath:
		set, err = LoadSeriesCSV(src.Payload, src.LabelColumn, src.ValueColumns, mode)
	case XLSXPath:
		set, err = LoadSeriesXLSX(src.Payload, src.Sheet, src.LabelColumn, src.ValueColumns, mode)
	default:
		return nil, errs.New(errs.CodeInvalidInput, "unsupported data source")
	}
	if err != nil {
		return nil, err
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// LoadTable reads src as table rows.
func LoadTable(src Source) (*Table, error) {
	switch src.Kind {
	case InlineJSON:
		raw, err := jsonPayload(src.Payload)
		if err != nil {
			return nil, err
		}
		return ParseTableJSON(raw)
	case CSVPath:
		return LoadTableCSV(src.Payload)
	case XLSXPath:
		return LoadTableXLSX(src.Payload, src.Sheet)
	}
	return nil, errs.New(errs.CodeInvalidInput, "%s input is not supported for tables", src.Kind)
}

// jsonPayload returns inline JSON, or the file contents for "@path".
func jsonPayload(payload string) ([]byte, error) {
	if path, ok := strings.CutPrefix(payload, "@"); ok {
		return readFile(path)
	}
	return []byte(payload), nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.CodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, errs.Wrap(errs.CodeInvalidInput, err, "failed to read %s", path)
	}
	return data, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func missingColumn(name string, header []string) error {
	return errs.New(errs.CodeMissingColumn, "column %q not found (available: %s)", name, strings.Join(header, ", "))
}

func rowError(source string, row int, format string, args ...any) error {
	return errs.New(errs.CodeInvalidInput, "%s row %d: %s", source, row, fmt.Sprintf(format, args...))
}
