package update

import (
	"github.com/Rorical/RoriQuery/internal/export"
	"github.com/Rorical/RoriQuery/internal/models"
	"github.com/Rorical/RoriQuery/internal/viz"
)

// AppModel is the chat screen's UI state. The session itself lives in the
// core; Session is the last snapshot it pushed.
type AppModel struct {
	Session models.SessionSnapshot
	Input   string

	Status        string
	StatusIsError bool
	Width         int
	Height        int

	// FollowUpIndex is the suggestion last copied into the input, -1 for
	// none.
	FollowUpIndex int
	// ChartModes holds chart overrides keyed by message index.
	ChartModes map[int]viz.ChartType

	ExportDir    string
	ExportFormat export.Format

	// HistoryCursor selects a conversation in the history list.
	HistoryCursor int
	// Dirty is set when the transcript changed and the view should follow
	// the newest message.
	Dirty bool
}

func NewAppModel(exportDir string) AppModel {
	return AppModel{
		Status:        "Ready",
		FollowUpIndex: -1,
		ChartModes:    make(map[int]viz.ChartType),
		ExportDir:     exportDir,
		ExportFormat:  export.CSV,
	}
}

// Awaiting reports whether the confirmation gate is open.
func (m *AppModel) Awaiting() bool {
	return m.Session.Pending != nil && !m.Session.InFlight
}

// LastResult returns the index of the newest message carrying rows, or -1.
func (m *AppModel) LastResult() int {
	for i := len(m.Session.Messages) - 1; i >= 0; i-- {
		if m.Session.Messages[i].HasData() {
			return i
		}
	}
	return -1
}

func (m *AppModel) SetStatus(text string, isError bool) {
	m.Status = text
	m.StatusIsError = isError
}
