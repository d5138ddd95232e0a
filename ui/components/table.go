package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/Rorical/RoriQuery/internal/models"
	"github.com/Rorical/RoriQuery/ui/styles"
)

const maxCellWidth = 30

// RenderTable draws rows as a bordered table in column order.
func RenderTable(rows []models.Row, theme styles.Theme) string {
	cols := models.Columns(rows)
	if len(cols) == 0 {
		return theme.MutedStyle().Render("(no rows)")
	}
	data := make([][]string, len(rows))
	for i, r := range rows {
		cells := make([]string, len(cols))
		for j, c := range cols {
			v, _ := r.Get(c)
			cells[j] = runewidth.Truncate(models.FormatValue(v), maxCellWidth, "…")
		}
		data[i] = cells
	}
	return StringTable(cols, data, theme)
}

// StringTable draws pre-formatted cells under headers.
func StringTable(headers []string, data [][]string, theme styles.Theme) string {
	header := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Muted)).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	return t.Render()
}
