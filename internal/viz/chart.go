// Package viz decides how a query result is drawn. It never changes the
// rows it is given.
package viz

import (
	"fmt"
	"strings"

	"github.com/Rorical/RoriQuery/internal/models"
)

type ChartType string

const (
	Auto  ChartType = "auto"
	Bar   ChartType = "bar"
	Line  ChartType = "line"
	Pie   ChartType = "pie"
	Table ChartType = "table"
)

// PieMaxRows is the largest result that is drawn as a pie.
const PieMaxRows = 5

var modes = []ChartType{Auto, Bar, Line, Pie, Table}

var timeHints = []string{"date", "time", "year", "month"}

func ParseChartType(s string) (ChartType, error) {
	t := ChartType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return Auto, nil
	}
	for _, m := range modes {
		if t == m {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown chart type %q", s)
}

// Next cycles through the override modes, auto first.
func (c ChartType) Next() ChartType {
	for i, m := range modes {
		if m == c {
			return modes[(i+1)%len(modes)]
		}
	}
	return Auto
}

// Selection is the resolved presentation of a result set.
type Selection struct {
	Type           ChartType
	Columns        []string
	NumericColumns []string
	LabelColumn    string
}

// ValueColumn is the first numeric column, or "" when there is none.
func (s Selection) ValueColumn() string {
	if len(s.NumericColumns) == 0 {
		return ""
	}
	return s.NumericColumns[0]
}

// NumericColumns returns the columns whose value parses as a number in
// every row, in column order.
func NumericColumns(rows []models.Row) []string {
	var out []string
	for _, col := range models.Columns(rows) {
		if columnIsNumeric(rows, col) {
			out = append(out, col)
		}
	}
	return out
}

func columnIsNumeric(rows []models.Row, col string) bool {
	for _, r := range rows {
		v, ok := r.Get(col)
		if !ok {
			return false
		}
		if _, ok := models.NumericValue(v); !ok {
			return false
		}
	}
	return true
}

// LabelColumn is the first non-numeric column, else the first column.
func LabelColumn(columns, numeric []string) string {
	isNumeric := make(map[string]bool, len(numeric))
	for _, c := range numeric {
		isNumeric[c] = true
	}
	for _, c := range columns {
		if !isNumeric[c] {
			return c
		}
	}
	if len(columns) > 0 {
		return columns[0]
	}
	return ""
}

// DetectChart applies the selection rules in order: small results with a
// number are a pie, a time-like column makes a line, any number with at
// least two columns makes a bar, and everything else is a table.
func DetectChart(rows []models.Row) Selection {
	cols := models.Columns(rows)
	numeric := NumericColumns(rows)
	sel := Selection{
		Type:           Table,
		Columns:        cols,
		NumericColumns: numeric,
		LabelColumn:    LabelColumn(cols, numeric),
	}
	if len(rows) == 0 || len(numeric) == 0 {
		return sel
	}

	switch {
	case len(rows) <= PieMaxRows:
		sel.Type = Pie
	case hasTimeColumn(cols):
		sel.Type = Line
	case len(cols) >= 2:
		sel.Type = Bar
	}
	return sel
}

// Resolve returns the automatic selection, replaced by override unless the
// override is Auto. A chart override on a result with no numeric column
// falls back to a table.
func Resolve(rows []models.Row, override ChartType) Selection {
	sel := DetectChart(rows)
	if override == "" || override == Auto {
		return sel
	}
	if override != Table && len(sel.NumericColumns) == 0 {
		sel.Type = Table
		return sel
	}
	sel.Type = override
	return sel
}

func hasTimeColumn(cols []string) bool {
	for _, c := range cols {
		lc := strings.ToLower(c)
		for _, h := range timeHints {
			if strings.Contains(lc, h) {
				return true
			}
		}
	}
	return false
}

// Point is one labelled value of a chart series.
type Point struct {
	Label string
	Value float64
}

// Series extracts label/value pairs for drawing. Rows whose value does not
// parse are skipped.
func Series(rows []models.Row, labelCol, valueCol string) []Point {
	out := make([]Point, 0, len(rows))
	for _, r := range rows {
		v, _ := r.Get(valueCol)
		f, ok := models.NumericValue(v)
		if !ok {
			continue
		}
		l, _ := r.Get(labelCol)
		out = append(out, Point{Label: models.FormatValue(l), Value: f})
	}
	return out
}
