// Package export writes query results and chat transcripts to files.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"

	"github.com/Rorical/RoriQuery/internal/models"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	JSON Format = "json"
	TXT  Format = "txt"
)

// DefaultBaseName prefixes timestamped result files.
const DefaultBaseName = "query_results"

const (
	txtPadding  = 2
	txtMaxWidth = 30
	sheetName   = "Sheet1"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

var Formats = []Format{CSV, XLSX, JSON, TXT}

// ParseFormat accepts the format names plus the aliases "excel" and "text".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "xlsx", "excel":
		return XLSX, nil
	case "json":
		return JSON, nil
	case "txt", "text":
		return TXT, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Next cycles through the formats.
func (f Format) Next() Format {
	for i, x := range Formats {
		if x == f {
			return Formats[(i+1)%len(Formats)]
		}
	}
	return CSV
}

// Write encodes rows in the given format. Columns come from the first row.
func Write(w io.Writer, rows []models.Row, format Format) error {
	switch format {
	case CSV:
		return WriteCSV(w, rows)
	case XLSX:
		return WriteXLSX(w, rows)
	case JSON:
		return WriteJSON(w, rows)
	case TXT:
		return WriteTXT(w, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// WriteCSV writes a header line and one line per row, without a trailing
// newline. Null cells are empty.
func WriteCSV(w io.Writer, rows []models.Row) error {
	cols := models.Columns(rows)
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(cols); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			v, _ := r.Get(c)
			record[i] = models.FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// WriteJSON writes the rows as a pretty-printed array with keys in column
// order.
func WriteJSON(w io.Writer, rows []models.Row) error {
	if rows == nil {
		rows = []models.Row{}
	}
	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// WriteTXT writes a fixed-width table. A column is as wide as its longest
// cell plus two, capped at 30; longer cells are not cut.
func WriteTXT(w io.Writer, rows []models.Row) error {
	cols := models.Columns(rows)
	cells := make([][]string, len(rows))
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c)
	}
	for ri, r := range rows {
		cells[ri] = make([]string, len(cols))
		for i, c := range cols {
			v, ok := r.Get(c)
			s := txtValue(v, ok)
			cells[ri][i] = s
			if n := runewidth.StringWidth(s); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i]+txtPadding, txtMaxWidth)
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, joinPadded(cols, widths, " | "))
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}
	lines = append(lines, strings.Join(sep, "-+-"))
	for _, row := range cells {
		lines = append(lines, joinPadded(row, widths, " | "))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func txtValue(v any, present bool) string {
	switch {
	case !present:
		return "undefined"
	case v == nil:
		return "null"
	}
	return models.FormatValue(v)
}

func joinPadded(cells []string, widths []int, sep string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = runewidth.FillRight(c, widths[i])
	}
	return strings.Join(out, sep)
}

// WriteXLSX writes a single-sheet workbook. Numbers are stored as numbers,
// everything else as text.
func WriteXLSX(w io.Writer, rows []models.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	cols := models.Columns(rows)
	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, c); err != nil {
			return err
		}
	}
	for ri, r := range rows {
		for ci, c := range cols {
			v, ok := r.Get(c)
			if !ok || v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, xlsxValue(v)); err != nil {
				return err
			}
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func xlsxValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case string, bool, float64, float32, int, int64:
		return val
	}
	return models.FormatValue(v)
}

// FileName is base plus a UTC timestamp and the format's extension, for
// example query_results_2024-03-01T09-30-00.csv.
func FileName(base string, format Format, now time.Time) string {
	if base == "" {
		base = DefaultBaseName
	}
	return fmt.Sprintf("%s_%s.%s", base, now.UTC().Format("2006-01-02T15-04-05"), format)
}

// ToFile writes rows into dir under a timestamped name and returns the path.
// A name already taken gets a _N suffix. Without rows it does nothing and
// returns "".
func ToFile(dir string, rows []models.Row, format Format, now time.Time) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(DefaultBaseName, format, now))
	var buf bytes.Buffer
	if err := Write(&buf, rows, format); err != nil {
		return "", fmt.Errorf("encode %s: %w", format, err)
	}
	return writeFile(path, buf.Bytes())
}

// maxSuffix bounds the _1, _2, ... names tried when a file already exists.
const maxSuffix = 1000

// writeFile writes data to path, or to path with a _N suffix before the
// extension when path is taken. Existing files are never overwritten. It
// returns the path written.
func writeFile(path string, data []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 0; i < maxSuffix; i++ {
		candidate := path
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("write %s: %w", candidate, err)
		}
		_, err = f.Write(data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return "", fmt.Errorf("write %s: %w", candidate, err)
		}
		return candidate, nil
	}
	return "", fmt.Errorf("write %s: too many files with this name", path)
}
