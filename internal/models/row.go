package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row is one query result record. Column order is preserved exactly as the
// backend sent it, so tables and exports keep the SELECT order.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow builds a row from alternating column/value pairs.
func NewRow(pairs ...any) Row {
	var r Row
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			key = fmt.Sprint(pairs[i])
		}
		r.Set(key, pairs[i+1])
	}
	return r
}

func (r *Row) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r Row) Columns() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Row) Len() int {
	return len(r.keys)
}

func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row: expected object, got %v", tok)
	}

	*r = Row{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("row: expected column name, got %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("row: column %q: %w", key, err)
		}
		r.Set(key, value)
	}
	_, err = dec.Token()
	return err
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("row: column %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Columns returns the column names of a result set, taken from its first row.
func Columns(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	return rows[0].Columns()
}

// FormatValue renders a cell value for display and text exports.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

// NumericValue reports whether v can be read as a finite number and returns
// it. Numeric strings count; booleans, nulls, NaN and infinities do not.
func NumericValue(v any) (float64, bool) {
	f, ok := numeric(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numeric(v any) (float64, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
