package update

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriQuery/internal/eventbus"
	"github.com/Rorical/RoriQuery/internal/models"
	"github.com/Rorical/RoriQuery/internal/viz"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+g":
		return tea.KeyMsg{Type: tea.KeyCtrlG}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func drain(eb *eventbus.EventBus) []eventbus.UIEvent {
	var out []eventbus.UIEvent
	for {
		select {
		case ev := <-eb.UIToCore():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestEnterSendsAndClearsInput(t *testing.T) {
	eb := eventbus.NewEventBus()
	m := NewAppModel(t.TempDir())
	m.Input = "how many students?"

	_, handled := HandleKeyMsgWithEventBus(&m, key("enter"), eb)
	assert.True(t, handled)
	assert.Empty(t, m.Input)
	assert.Equal(t, []eventbus.UIEvent{eventbus.SendMessageEvent{Message: "how many students?"}}, drain(eb))
}

func TestEnterWhileInFlightCancels(t *testing.T) {
	eb := eventbus.NewEventBus()
	m := NewAppModel(t.TempDir())
	m.Session.InFlight = true
	m.Input = "draft"

	HandleKeyMsgWithEventBus(&m, key("enter"), eb)
	assert.Equal(t, "draft", m.Input)
	assert.Equal(t, []eventbus.UIEvent{eventbus.CancelRequestEvent{}}, drain(eb))
}

func TestBlankEnterSendsNothing(t *testing.T) {
	eb := eventbus.NewEventBus()
	m := NewAppModel(t.TempDir())
	m.Input = "   "
	HandleKeyMsgWithEventBus(&m, key("enter"), eb)
	assert.Empty(t, drain(eb))
}

func TestGateKeys(t *testing.T) {
	eb := eventbus.NewEventBus()
	m := NewAppModel(t.TempDir())
	m.Session.Pending = &models.PendingQuery{Query: "drop it"}

	_, handled := HandleKeyMsgWithEventBus(&m, key("x"), eb)
	assert.True(t, handled, "typing is swallowed while the gate is open")
	HandleKeyMsgWithEventBus(&m, key("y"), eb)
	HandleKeyMsgWithEventBus(&m, key("esc"), eb)

	assert.Equal(t, []eventbus.UIEvent{
		eventbus.ConfirmationResponseEvent{Approved: true},
		eventbus.ConfirmationResponseEvent{Approved: false},
	}, drain(eb))
}

func TestTabCyclesFollowUps(t *testing.T) {
	eb := eventbus.NewEventBus()
	m := NewAppModel(t.TempDir())
	m.Session.FollowUps = []string{"a?", "b?"}

	HandleKeyMsgWithEventBus(&m, key("tab"), eb)
	assert.Equal(t, "a?", m.Input)
	HandleKeyMsgWithEventBus(&m, key("tab"), eb)
	assert.Equal(t, "b?", m.Input)
	HandleKeyMsgWithEventBus(&m, key("tab"), eb)
	assert.Equal(t, "a?", m.Input)
}

func TestPlainKeysAreNotHandled(t *testing.T) {
	eb := eventbus.NewEventBus()
	m := NewAppModel(t.TempDir())
	_, handled := HandleKeyMsgWithEventBus(&m, key("q"), eb)
	assert.False(t, handled)
}

func TestChartModeCycles(t *testing.T) {
	eb := eventbus.NewEventBus()
	m := NewAppModel(t.TempDir())
	m.Session.Messages = []models.Message{
		{Sender: models.AI, Text: "x", Data: []models.Row{models.NewRow("a", 1)}},
	}
	HandleKeyMsgWithEventBus(&m, key("ctrl+g"), eb)
	assert.Equal(t, viz.Bar, m.ChartModes[0])
	HandleKeyMsgWithEventBus(&m, key("ctrl+g"), eb)
	assert.Equal(t, viz.Line, m.ChartModes[0])
}

func TestExportKey(t *testing.T) {
	eb := eventbus.NewEventBus()
	dir := t.TempDir()
	m := NewAppModel(dir)
	m.Session.Messages = []models.Message{
		{Sender: models.AI, Text: "x", Data: []models.Row{models.NewRow("a", 1, "b", "x")}},
	}

	cmd, _ := HandleKeyMsgWithEventBus(&m, key("ctrl+e"), eb)
	require.NotNil(t, cmd)
	notice, ok := cmd().(NoticeMsg)
	require.True(t, ok)
	assert.False(t, notice.IsError)

	files, err := filepath.Glob(filepath.Join(dir, "query_results_*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x", string(data))
}

func TestStateUpdate(t *testing.T) {
	m := NewAppModel(t.TempDir())
	m.ChartModes[2] = viz.Pie
	m.Session.Messages = make([]models.Message, 3)

	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.StateUpdateEvent{Snapshot: models.SessionSnapshot{
		Messages: []models.Message{models.SystemMessage("hi")},
		Pending:  &models.PendingQuery{},
	}}})
	assert.Empty(t, m.ChartModes)
	assert.Equal(t, "Confirmation required", m.Status)
	assert.True(t, m.Awaiting())
	assert.True(t, m.Dirty)

	HandleCoreEvent(&m, CoreEventMsg{Event: eventbus.NoticeEvent{Text: "boom", IsError: true}})
	assert.Equal(t, "boom", m.Status)
	assert.True(t, m.StatusIsError)
}

func TestCtrlNStartsNewChat(t *testing.T) {
	eb := eventbus.NewEventBus()
	m := NewAppModel(t.TempDir())
	m.ChartModes[1] = viz.Pie

	_, handled := HandleKeyMsgWithEventBus(&m, key("ctrl+n"), eb)
	assert.True(t, handled)
	assert.Empty(t, m.ChartModes)
	assert.Equal(t, "New chat", m.Status)
	assert.Equal(t, []eventbus.UIEvent{eventbus.NewChatEvent{}}, drain(eb))
}
