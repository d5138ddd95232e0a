package components

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Rorical/RoriQuery/internal/models"
	"github.com/Rorical/RoriQuery/ui/styles"
)

// RenderConversations draws the history list. cursor marks the selection
// and activeID the open conversation.
func RenderConversations(list []models.ConversationSummary, cursor int, activeID int64, theme styles.Theme, width int) string {
	inner := max(width-4, 8)
	lines := []string{theme.TitleStyle().Render("History")}
	if len(list) == 0 {
		lines = append(lines, theme.MutedStyle().Render("no conversations"))
	}
	for i, c := range list {
		marker := "  "
		if i == cursor {
			marker = "› "
		}
		title := runewidth.Truncate(c.Title, inner-2, "…")
		line := marker + title
		if c.ID == activeID {
			line = theme.SuccessStyle().Render(line)
		}
		lines = append(lines, line)
		meta := fmt.Sprintf("  %d msgs", c.Messages)
		if !c.Timestamp.IsZero() {
			meta += " · " + c.Timestamp.Local().Format("Jan 2 15:04")
		}
		lines = append(lines, theme.MutedStyle().Render(meta))
	}
	return theme.PanelStyle(width).Render(strings.Join(lines, "\n"))
}
