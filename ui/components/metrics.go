package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/ui/styles"
)

// RenderMetrics draws the super-admin analytics screen.
func RenderMetrics(m *api.SuperAdminMetrics, theme styles.Theme, width int) string {
	if m == nil {
		return theme.MutedStyle().Render("Loading metrics…")
	}
	cardWidth := max(width/4-2, 18)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card(theme, cardWidth, "Accuracy", fmt.Sprintf("%.1f%%", m.AccuracyScore)),
		card(theme, cardWidth, "SQL success", fmt.Sprintf("%.1f%%", m.SQLSuccessRate)),
		card(theme, cardWidth, "Avg response", fmt.Sprintf("%.2fs", m.AvgResponseTime)),
		card(theme, cardWidth, "Health", m.SystemHealth),
	)
	totals := lipgloss.JoinHorizontal(lipgloss.Top,
		card(theme, cardWidth, "Queries", fmt.Sprint(m.TotalQueries)),
		card(theme, cardWidth, "Users", fmt.Sprint(m.TotalUsers)),
		card(theme, cardWidth, "Active users", fmt.Sprint(m.ActiveUsers)),
		card(theme, cardWidth, "Words generated", fmt.Sprint(m.TotalWordsGenerated)),
	)

	sections := []string{cards, totals}

	if len(m.EngagementTrend) > 0 {
		data := make([][]string, 0, len(m.EngagementTrend))
		for _, p := range m.EngagementTrend {
			data = append(data, []string{p.Name, formatNumber(p.Active), formatNumber(p.Queries)})
		}
		sections = append(sections, theme.TitleStyle().Render("Engagement"),
			StringTable([]string{"Period", "Active", "Queries"}, data, theme))
	}

	if len(m.TopicDistribution) > 0 {
		var b strings.Builder
		total := 0.0
		for _, t := range m.TopicDistribution {
			total += t.Value
		}
		for i, t := range m.TopicDistribution {
			color := theme.Accent
			if t.Color != "" {
				color = lipgloss.Color(t.Color)
			}
			share := 0.0
			if total > 0 {
				share = t.Value / total
			}
			if i > 0 {
				b.WriteString("\n")
			}
			n := int(share * 30)
			fmt.Fprintf(&b, "%s %s %.0f%%", label(t.Name),
				lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("■", n)), share*100)
		}
		sections = append(sections, theme.TitleStyle().Render("Topics"), b.String())
	}

	if len(m.RecentActivity) > 0 {
		data := make([][]string, 0, len(m.RecentActivity))
		for _, a := range m.RecentActivity {
			data = append(data, []string{a.User, a.Topic, a.Status, a.Date})
		}
		sections = append(sections, theme.TitleStyle().Render("Recent activity"),
			StringTable([]string{"User", "Topic", "Status", "Date"}, data, theme))
	}
	return strings.Join(sections, "\n\n")
}

func card(theme styles.Theme, width int, title, value string) string {
	return theme.PanelStyle(width).Render(
		theme.MutedStyle().Render(title) + "\n" + lipgloss.NewStyle().Bold(true).Render(value))
}
