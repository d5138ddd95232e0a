package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriQuery/internal/core"
	"github.com/Rorical/RoriQuery/internal/models"
	"github.com/Rorical/RoriQuery/ui/styles"
)

// RenderGate draws the confirmation prompt for a pending query.
func RenderGate(p *models.PendingQuery, theme styles.Theme, width int) string {
	if p == nil {
		return ""
	}
	kind := core.ClassifySQL(p.Response.SQL)
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(kind.Color)).Bold(true).
		Render(fmt.Sprintf("⚠ %s query needs confirmation", kind.Type))

	lines := []string{title, kind.Message + "."}
	if p.Response.AffectedRows > 0 {
		lines = append(lines, fmt.Sprintf("Rows affected: %d", p.Response.AffectedRows))
	}
	if p.Response.SQL != "" {
		lines = append(lines, "", HighlightSQL(p.Response.SQL, theme.Chroma))
	}
	lines = append(lines, "", theme.MutedStyle().Render("y: run it · n/esc: cancel"))
	return theme.GateStyle(kind.Color, width).Render(strings.Join(lines, "\n"))
}
