package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriQuery/internal/analytics"
	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/ui/components"
)

func (m *AppModel) updateLeaderboard(msg tea.KeyMsg) tea.Cmd {
	q := &m.boardQuery
	reloadFilters := false
	switch msg.String() {
	case "tab":
		q.Category = analytics.NextCategory(q.Category)
	case "c":
		if m.filters == nil {
			return nil
		}
		ids := make([]int64, len(m.filters.Colleges))
		for i, c := range m.filters.Colleges {
			ids[i] = c.ID
		}
		q.CollegeID = nextID(ids, q.CollegeID)
		// Courses and metadata depend on the college.
		q.CourseID, q.DepartmentID, q.BatchID, q.SectionID = 0, 0, 0, 0
		reloadFilters = true
	case "o":
		if m.filters == nil {
			return nil
		}
		ids := make([]int64, len(m.filters.Courses))
		for i, c := range m.filters.Courses {
			ids[i] = c.ID
		}
		q.CourseID = nextID(ids, q.CourseID)
	case "d":
		if m.filters == nil {
			return nil
		}
		q.DepartmentID = nextID(optionIDs(m.filters.Departments), q.DepartmentID)
	case "b":
		if m.filters == nil {
			return nil
		}
		q.BatchID = nextID(optionIDs(m.filters.Batches), q.BatchID)
	case "s":
		if m.filters == nil {
			return nil
		}
		q.SectionID = nextID(optionIDs(m.filters.Sections), q.SectionID)
	case "x":
		*q = api.LeaderboardQuery{Category: q.Category, Limit: q.Limit}
		reloadFilters = true
	case "r":
		return m.loadRoute()
	case "q":
		return tea.Quit
	default:
		return nil
	}

	m.loading = true
	cmds := []tea.Cmd{loadBoardCmd(m.deps.Client, *q)}
	if reloadFilters {
		cmds = append(cmds, loadFiltersCmd(m.deps.Client, q.CollegeID))
	}
	return tea.Batch(cmds...)
}

// nextID cycles none -> ids[0] -> ... -> none.
func nextID(ids []int64, current int64) int64 {
	if current == 0 {
		if len(ids) == 0 {
			return 0
		}
		return ids[0]
	}
	for i, id := range ids {
		if id == current && i+1 < len(ids) {
			return ids[i+1]
		}
	}
	return 0
}

func optionIDs(opts []api.FilterOption) []int64 {
	out := make([]int64, len(opts))
	for i, o := range opts {
		out[i] = o.ID
	}
	return out
}

func (m *AppModel) viewLeaderboard() string {
	out := components.RenderFilters(m.filters, m.boardQuery, m.theme)
	if out != "" {
		out += "\n\n"
	}
	return out + components.RenderLeaderboard(m.board, m.boardQuery.Category, m.theme)
}
