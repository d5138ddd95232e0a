package components

import (
	"fmt"
	"strings"

	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/ui/styles"
)

// RenderProfile draws the dashboard card for the signed-in user.
func RenderProfile(u *api.User, theme styles.Theme, width int) string {
	if u == nil {
		return theme.MutedStyle().Render("Loading profile…")
	}
	lines := []string{
		theme.TitleStyle().Render("Welcome, " + u.Name),
		field(theme, "Email", u.Email),
		field(theme, "Role", u.Role),
	}
	if u.RollNo != "" {
		lines = append(lines, field(theme, "Roll no", u.RollNo))
	}
	if u.College != "" {
		lines = append(lines, field(theme, "College", u.College))
	}
	if u.Department != "" {
		lines = append(lines, field(theme, "Department", u.Department))
	}
	lines = append(lines, "",
		theme.TitleStyle().Render("Usage"),
		field(theme, "Chats", fmt.Sprint(u.StatsChatCount)),
		field(theme, "Words generated", fmt.Sprint(u.StatsWordsGenerated)),
		field(theme, "Active streak", fmt.Sprintf("%d days", u.ActiveStreak)),
	)
	return theme.PanelStyle(width).Render(strings.Join(lines, "\n"))
}

func field(theme styles.Theme, name, value string) string {
	return theme.MutedStyle().Render(fmt.Sprintf("%-16s", name)) + value
}
