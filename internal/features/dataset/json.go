package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"docviz/internal/infra/errs"
	"docviz/internal/infra/log"

	"go.uber.org/zap"
)

// member is one key/value of a JSON object, in document order.
type member struct {
	Key   string
	Value json.RawMessage
}

var (
	labelKeys = []string{"label", "name", "x", "category"}
	valueKeys = []string{"value", "y", "count"}
)

// decodeObject reads a JSON object keeping member order. Go maps do not.
func decodeObject(raw []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object")
	}

	var members []member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		members = append(members, member{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, err
	}
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("unexpected data after JSON object")
	}
	return members, nil
}

func firstByte(raw []byte) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// ParseSeriesJSON accepts {"label": value, ...} (labels in document order) or
// [{"label": ..., "value": ...}, ...] where a missing label becomes the record index.
func ParseSeriesJSON(raw []byte) (*SeriesSet, error) {
	labels, values, err := parsePoints(raw)
	if err != nil {
		return nil, err
	}
	return &SeriesSet{Labels: labels, Series: []Series{{Name: "", Values: values}}}, nil
}

func parsePoints(raw []byte) ([]string, []float64, error) {
	switch firstByte(raw) {
	case '{':
		members, err := decodeObject(raw)
		if err != nil {
			return nil, nil, errs.Wrap(errs.CodeInvalidInput, err, "invalid JSON data")
		}
		labels := make([]string, 0, len(members))
		values := make([]float64, 0, len(members))
		for _, m := range members {
			v, err := toFloat(m.Value)
			if err != nil {
				return nil, nil, errs.Wrap(errs.CodeInvalidInput, err, "value for %q", m.Key)
			}
			labels = append(labels, m.Key)
			values = append(values, v)
		}
		return labels, values, nil
	case '[':
		var records []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, nil, errs.Wrap(errs.CodeInvalidInput, err, "invalid JSON data, expected an array of records")
		}
		labels := make([]string, 0, len(records))
		values := make([]float64, 0, len(records))
		for i, rec := range records {
			label := strconv.Itoa(i)
			if rawLabel, ok := pick(rec, labelKeys); ok {
				label = cellText(rawLabel)
			}
			rawValue, ok := pick(rec, valueKeys)
			if !ok {
				return nil, nil, errs.New(errs.CodeInvalidInput, "record %d has no value field (%s)", i, strings.Join(valueKeys, ", "))
			}
			v, err := toFloat(rawValue)
			if err != nil {
				return nil, nil, errs.Wrap(errs.CodeInvalidInput, err, "record %d", i)
			}
			labels = append(labels, label)
			values = append(values, v)
		}
		return labels, values, nil
	case 0:
		return nil, nil, errs.New(errs.CodeEmptyInput, "empty JSON data")
	}
	return nil, nil, errs.New(errs.CodeInvalidInput, "invalid JSON data, expected an object or an array of records")
}

// ParseMultiSeriesJSON accepts {"series name": <object or array of records>, ...}.
// Labels come from the first series; later series are aligned to that order and
// a label they lack is plotted as 0 with a warning.
func ParseMultiSeriesJSON(raw []byte) (*SeriesSet, error) {
	if firstByte(raw) != '{' {
		return nil, errs.New(errs.CodeInvalidInput, "invalid multi-series JSON, expected an object of series")
	}
	members, err := decodeObject(raw)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInvalidInput, err, "invalid multi-series JSON")
	}
	if len(members) == 0 {
		return nil, errs.New(errs.CodeEmptyInput, "multi-series JSON has no series")
	}

	set := &SeriesSet{}
	for i, m := range members {
		labels, values, err := parsePoints(m.Value)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", m.Key, err)
		}
		if i == 0 {
			set.Labels = labels
			set.Series = append(set.Series, Series{Name: m.Key, Values: values})
			continue
		}

		byLabel := make(map[string]float64, len(labels))
		for j, l := range labels {
			if _, dup := byLabel[l]; !dup {
				byLabel[l] = values[j]
			}
		}
		aligned := make([]float64, len(set.Labels))
		var missing []string
		for j, l := range set.Labels {
			v, ok := byLabel[l]
			if !ok {
				missing = append(missing, l)
			}
			aligned[j] = v
		}
		if len(missing) > 0 {
			log.LogWarn(fmt.Sprintf("Series %q has no value for %d label(s), plotting 0", m.Key, len(missing)),
				zap.Strings("labels", missing))
		}
		set.Series = append(set.Series, Series{Name: m.Key, Values: aligned})
	}
	return set, nil
}

func pick(rec map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := rec[k]; ok {
			return v, true
		}
	}
	for _, k := range keys {
		for rk, v := range rec {
			if strings.EqualFold(rk, k) {
				return v, true
			}
		}
	}
	return nil, false
}

// toFloat accepts JSON numbers and numeric strings.
func toFloat(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseNumber(s)
	}
	return 0, fmt.Errorf("not a number: %s", string(raw))
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}

// cellText renders a JSON value as display text: strings unquoted,
// numbers as written, null as empty, anything else as compact JSON.
func cellText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err == nil {
		return buf.String()
	}
	return string(trimmed)
}

// ParseTableJSON accepts an array of row objects. Columns come from the first
// row in document order; keys absent from a later row render as empty cells.
func ParseTableJSON(raw []byte) (*Table, error) {
	if firstByte(raw) != '[' {
		return nil, errs.New(errs.CodeInvalidInput, "invalid table JSON, expected an array of row objects")
	}
	var rawRows []json.RawMessage
	if err := json.Unmarshal(raw, &rawRows); err != nil {
		return nil, errs.Wrap(errs.CodeInvalidInput, err, "invalid table JSON")
	}
	if len(rawRows) == 0 {
		return nil, errs.New(errs.CodeEmptyInput, "table JSON has no rows")
	}

	t := &Table{}
	for i, rr := range rawRows {
		members, err := decodeObject(rr)
		if err != nil {
			return nil, errs.Wrap(errs.CodeInvalidInput, err, "table row %d", i)
		}
		row := make(Row, len(members))
		for _, m := range members {
			row[m.Key] = cellText(m.Value)
		}
		if i == 0 {
			for _, m := range members {
				t.Columns = append(t.Columns, m.Key)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Columns) == 0 {
		return nil, errs.New(errs.CodeEmptyInput, "table JSON first row has no columns")
	}
	return t, nil
}
