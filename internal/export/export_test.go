package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Rorical/RoriQuery/internal/models"
)

func sampleRows() []models.Row {
	return []models.Row{
		models.NewRow("a", 1, "b", "x"),
		models.NewRow("a", 2, "b", "y"),
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))
	assert.Equal(t, "a,b\n1,x\n2,y", buf.String())
}

func TestWriteCSVQuotes(t *testing.T) {
	rows := []models.Row{models.NewRow("name", `Smith, "J"`, "note", nil)}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	assert.Equal(t, "name,note\n\"Smith, \"\"J\"\"\",", buf.String())
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRows()))
	assert.True(t, strings.HasPrefix(buf.String(), "[\n  {\n    \"a\": 1,"))

	var back []models.Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back, 2)
	assert.Equal(t, []string{"a", "b"}, back[0].Columns())
	v, _ := back[1].Get("b")
	assert.Equal(t, "y", v)
}

func TestWriteTXT(t *testing.T) {
	rows := []models.Row{
		models.NewRow("id", 1, "name", "Ada"),
		models.NewRow("id", 22, "name", nil),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTXT(&buf, rows))

	want := strings.Join([]string{
		"id   | name  ",
		"-----+-------",
		"1    | Ada   ",
		"22   | null  ",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteTXTCapsWidthWithoutTruncating(t *testing.T) {
	long := strings.Repeat("z", 40)
	var buf bytes.Buffer
	require.NoError(t, WriteTXT(&buf, []models.Row{models.NewRow("c", long)}))
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, strings.Repeat("-", 30), lines[1])
	assert.Equal(t, long, lines[2])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "x"}, {"2", "y"}}, got)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("Excel")
	require.NoError(t, err)
	assert.Equal(t, XLSX, f)

	f, err = ParseFormat("text")
	require.NoError(t, err)
	assert.Equal(t, TXT, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Equal(t, XLSX, CSV.Next())
	assert.Equal(t, CSV, TXT.Next())
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 5, 0, time.UTC)
	assert.Equal(t, "query_results_2024-03-01T09-30-05.csv", FileName("", CSV, now))
	assert.Equal(t, "chat-2024-03-01.txt", TranscriptFileName(now))
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 9, 30, 5, 0, time.UTC)

	path, err := ToFile(dir, sampleRows(), CSV, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "query_results_2024-03-01T09-30-05.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x\n2,y", string(data))
}

func TestToFileSameSecondKeepsBothFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 9, 30, 5, 0, time.UTC)

	first, err := ToFile(dir, sampleRows(), CSV, now)
	require.NoError(t, err)
	second, err := ToFile(dir, sampleRows()[:1], CSV, now)
	require.NoError(t, err)
	third, err := ToFile(dir, sampleRows(), CSV, now)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "query_results_2024-03-01T09-30-05.csv"), first)
	assert.Equal(t, filepath.Join(dir, "query_results_2024-03-01T09-30-05_1.csv"), second)
	assert.Equal(t, filepath.Join(dir, "query_results_2024-03-01T09-30-05_2.csv"), third)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x\n2,y", string(data))
	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x", string(data))

	day1, err := TranscriptToFile(dir, []models.Message{models.UserMessage("hi")}, now)
	require.NoError(t, err)
	day2, err := TranscriptToFile(dir, []models.Message{models.UserMessage("again")}, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chat-2024-03-01.txt"), day1)
	assert.Equal(t, filepath.Join(dir, "chat-2024-03-01_1.txt"), day2)
}

func TestToFileWithoutRowsIsNoop(t *testing.T) {
	dir := t.TempDir()
	path, err := ToFile(dir, nil, CSV, time.Now())
	require.NoError(t, err)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTranscript(t *testing.T) {
	msgs := []models.Message{
		models.SystemMessage("hello"),
		models.UserMessage("count users"),
		{Sender: models.AI, Text: "There are 3.", SQL: "SELECT COUNT(*) FROM users"},
	}
	want := "USER: count users\n\n---\n\nAI: There are 3.\n\nSQL: SELECT COUNT(*) FROM users"
	assert.Equal(t, want, Transcript(msgs))

	path, err := TranscriptToFile(t.TempDir(), msgs[:1], time.Now())
	require.NoError(t, err)
	assert.Empty(t, path)
}
