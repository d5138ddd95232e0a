package components

import (
	"fmt"
	"strings"

	"github.com/Rorical/RoriQuery/internal/models"
	"github.com/Rorical/RoriQuery/internal/viz"
	"github.com/Rorical/RoriQuery/ui/styles"
)

// LargeResultRows is the most rows drawn inline as a table.
const LargeResultRows = 25

// MessageView carries what RenderMessages needs besides the messages.
type MessageView struct {
	Theme    styles.Theme
	Width    int
	Markdown *Markdown
	// ChartModes holds per-message chart overrides keyed by message index.
	ChartModes map[int]viz.ChartType
}

func (v MessageView) chartMode(i int) viz.ChartType {
	if mode, ok := v.ChartModes[i]; ok {
		return mode
	}
	return viz.Auto
}

func RenderMessages(messages []models.Message, v MessageView) string {
	var b strings.Builder

	systemStyle := v.Theme.SystemStyle()
	userStyle := v.Theme.UserStyle()
	assistantStyle := v.Theme.AssistantStyle()

	for i, msg := range messages {
		switch msg.Sender {
		case models.System:
			b.WriteString(systemStyle.Render(msg.Text) + "\n\n")
		case models.User:
			b.WriteString(userStyle.Render("You: "+msg.Text) + "\n\n")
		case models.AI:
			b.WriteString(assistantStyle.Render(renderAnswer(msg, v, v.chartMode(i))) + "\n\n")
		}
	}

	return b.String()
}

func renderAnswer(msg models.Message, v MessageView, mode viz.ChartType) string {
	parts := []string{v.Markdown.Render(msg.Text)}
	if msg.SQL != "" {
		parts = append(parts, v.Theme.MutedStyle().Render("SQL")+"\n"+HighlightSQL(msg.SQL, v.Theme.Chroma))
	}
	if msg.HasData() {
		parts = append(parts, RenderResult(msg.Data, mode, v.Theme, v.Width-6))
	}
	return strings.Join(parts, "\n\n")
}

// RenderResult draws a result set with the chosen chart. Large results
// are summarized rather than tabulated.
func RenderResult(rows []models.Row, mode viz.ChartType, theme styles.Theme, width int) string {
	sel := viz.Resolve(rows, mode)
	header := theme.MutedStyle().Render(fmt.Sprintf("%d rows · view: %s (ctrl+g to change)", len(rows), modeLabel(mode, sel)))

	if sel.Type == viz.Table && len(rows) > LargeResultRows {
		notice := fmt.Sprintf("Large result: %d rows. Showing the first %d; press ctrl+e to export all of them.", len(rows), LargeResultRows)
		return header + "\n" + RenderTable(rows[:LargeResultRows], theme) + "\n" + theme.MutedStyle().Render(notice)
	}
	return header + "\n" + RenderChart(rows, sel, theme, width)
}

func modeLabel(mode viz.ChartType, sel viz.Selection) string {
	if mode == "" || mode == viz.Auto {
		return "auto → " + string(sel.Type)
	}
	return string(sel.Type)
}
