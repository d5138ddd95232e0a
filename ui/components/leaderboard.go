package components

import (
	"fmt"
	"strings"

	"github.com/Rorical/RoriQuery/internal/analytics"
	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/ui/styles"
)

// RenderLeaderboard draws the category tabs and the ranking. The caller's
// own row is marked.
func RenderLeaderboard(b *analytics.Board, category string, theme styles.Theme) string {
	tabs := make([]string, 0, len(analytics.Categories))
	for _, c := range analytics.Categories {
		tabs = append(tabs, theme.TabStyle(c == category).Render(strings.ToUpper(c)))
	}
	out := strings.Join(tabs, " ") + "\n\n"
	if b == nil {
		return out + theme.MutedStyle().Render("Loading leaderboard…")
	}
	if len(b.Entries) == 0 {
		return out + theme.MutedStyle().Render("No ranked students for these filters.")
	}

	data := make([][]string, 0, len(b.Entries))
	for _, e := range b.Entries {
		name := e.StudentName
		if e.IsCurrentUser {
			name = "★ " + name + " (you)"
		}
		data = append(data, []string{
			fmt.Sprint(e.Rank),
			name,
			formatNumber(e.Metrics.Score),
			formatNumber(e.Metrics.TotalMarks),
			formatNumber(e.Metrics.QuestionsAttended),
			e.Metrics.Accuracy,
		})
	}
	out += StringTable([]string{"#", "Student", "Score", "Total", "Attended", "Accuracy"}, data, theme)
	if me, ok := b.CurrentUser(); ok {
		out += "\n" + theme.SuccessStyle().Render(fmt.Sprintf("Your rank: %d", me.Rank))
	}
	return out
}

// RenderFilters lists the active leaderboard filters by name.
func RenderFilters(f *analytics.Filters, q api.LeaderboardQuery, theme styles.Theme) string {
	if f == nil {
		return ""
	}
	parts := []string{}
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}
	for _, c := range f.Colleges {
		if c.ID == q.CollegeID {
			add("college", c.Name)
		}
	}
	for _, c := range f.Courses {
		if c.ID == q.CourseID {
			add("course", c.Title)
		}
	}
	add("department", optionName(f.Departments, q.DepartmentID))
	add("batch", optionName(f.Batches, q.BatchID))
	add("section", optionName(f.Sections, q.SectionID))
	if len(parts) == 0 {
		parts = append(parts, "all students")
	}
	return theme.MutedStyle().Render("Filters › " + strings.Join(parts, " · "))
}

func optionName(opts []api.FilterOption, id int64) string {
	for _, o := range opts {
		if o.ID == id {
			return o.Name
		}
	}
	return ""
}
