package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriQuery/ui/styles"
)

// RenderFollowUps draws suggestion chips; selected is -1 when none is
// highlighted.
func RenderFollowUps(suggestions []string, selected int, theme styles.Theme) string {
	if len(suggestions) == 0 {
		return ""
	}
	chips := make([]string, 0, len(suggestions)+1)
	chips = append(chips, theme.MutedStyle().Render("tab ›"))
	for i, s := range suggestions {
		chips = append(chips, theme.ChipStyle(i == selected).Render(s))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, chips...)
}
