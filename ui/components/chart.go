package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Rorical/RoriQuery/internal/models"
	"github.com/Rorical/RoriQuery/internal/viz"
	"github.com/Rorical/RoriQuery/ui/styles"
)

const (
	maxLabelWidth = 16
	// MaxChartPoints caps the bars or slices drawn for one result.
	MaxChartPoints = 25
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderChart draws rows according to sel. Tables are drawn by RenderTable.
func RenderChart(rows []models.Row, sel viz.Selection, theme styles.Theme, width int) string {
	if sel.Type == viz.Table || sel.Type == viz.Auto {
		return RenderTable(rows, theme)
	}
	points := viz.Series(rows, sel.LabelColumn, sel.ValueColumn())
	more := 0
	if len(points) > MaxChartPoints {
		more = len(points) - MaxChartPoints
		points = points[:MaxChartPoints]
	}

	var body string
	switch sel.Type {
	case viz.Pie:
		body = renderPie(points, theme, width)
	case viz.Line:
		body = renderLine(points, theme, width)
	default:
		body = renderBars(points, theme, width)
	}

	caption := fmt.Sprintf("%s chart · %s by %s", sel.Type, sel.ValueColumn(), sel.LabelColumn)
	out := theme.MutedStyle().Render(caption) + "\n" + body
	if more > 0 {
		out += "\n" + theme.MutedStyle().Render(fmt.Sprintf("… %d more", more))
	}
	return out
}

func label(s string) string {
	return runewidth.FillRight(runewidth.Truncate(s, maxLabelWidth, "…"), maxLabelWidth)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cells converts a fraction of width into a run length within [0, width].
func cells(frac float64, width int) int {
	if math.IsNaN(frac) || frac <= 0 {
		return 0
	}
	if frac >= 1 {
		return width
	}
	return int(math.Round(frac * float64(width)))
}

func renderBars(points []viz.Point, theme styles.Theme, width int) string {
	barWidth := max(width-maxLabelWidth-16, 10)
	peak := 0.0
	for _, p := range points {
		peak = math.Max(peak, math.Abs(p.Value))
	}
	bar := lipgloss.NewStyle().Foreground(theme.Accent)
	var b strings.Builder
	for i, p := range points {
		n := 0
		if peak > 0 {
			n = cells(math.Abs(p.Value)/peak, barWidth)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s %s", label(p.Label), bar.Render(strings.Repeat("█", n)), formatNumber(p.Value))
	}
	return b.String()
}

func renderPie(points []viz.Point, theme styles.Theme, width int) string {
	total := 0.0
	for _, p := range points {
		total += math.Abs(p.Value)
	}
	barWidth := max(width-maxLabelWidth-20, 10)
	slice := lipgloss.NewStyle().Foreground(theme.Assistant)
	var b strings.Builder
	for i, p := range points {
		share := 0.0
		if total > 0 {
			share = math.Abs(p.Value) / total
		}
		if i > 0 {
			b.WriteString("\n")
		}
		n := cells(share, barWidth)
		fmt.Fprintf(&b, "%s %s %5.1f%% (%s)", label(p.Label), slice.Render(strings.Repeat("■", n)), share*100, formatNumber(p.Value))
	}
	return b.String()
}

// renderLine draws a sparkline with the first and last labels under it.
func renderLine(points []viz.Point, theme styles.Theme, width int) string {
	if len(points) == 0 {
		return ""
	}
	lo, hi := points[0].Value, points[0].Value
	for _, p := range points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	var spark strings.Builder
	for _, p := range points {
		idx := 0
		if hi > lo {
			idx = min(cells((p.Value-lo)/(hi-lo), len(sparkBlocks)-1), len(sparkBlocks)-1)
		}
		spark.WriteRune(sparkBlocks[idx])
	}
	line := lipgloss.NewStyle().Foreground(theme.Accent).Render(spark.String())
	axis := fmt.Sprintf("%s → %s  (min %s, max %s)",
		points[0].Label, points[len(points)-1].Label, formatNumber(lo), formatNumber(hi))
	return line + "\n" + theme.MutedStyle().Render(runewidth.Truncate(axis, max(width, 20), "…"))
}
