package update

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriQuery/internal/eventbus"
	"github.com/Rorical/RoriQuery/internal/export"
	"github.com/Rorical/RoriQuery/internal/models"
	"github.com/Rorical/RoriQuery/internal/viz"
)

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// NoticeMsg is a status line produced on the UI side, such as an export
// result.
type NoticeMsg struct {
	Text    string
	IsError bool
}

// HandleKeyMsgWithEventBus handles chat keys. Plain typing is left to the
// caller's text input unless the confirmation gate is open.
func HandleKeyMsgWithEventBus(appModel *AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) (tea.Cmd, bool) {
	if appModel.Awaiting() {
		return handleGateKey(appModel, keyMsg, eb), true
	}

	switch keyMsg.String() {
	case "enter":
		if appModel.Session.InFlight {
			send(appModel, eb, eventbus.CancelRequestEvent{})
			return nil, true
		}
		if strings.TrimSpace(appModel.Input) == "" {
			return nil, true
		}
		if send(appModel, eb, eventbus.SendMessageEvent{Message: appModel.Input}) {
			appModel.Input = ""
			appModel.FollowUpIndex = -1
		}
		return nil, true
	case "esc":
		if appModel.Session.InFlight {
			send(appModel, eb, eventbus.CancelRequestEvent{})
		}
		return nil, true
	case "tab":
		if n := len(appModel.Session.FollowUps); n > 0 {
			appModel.FollowUpIndex = (appModel.FollowUpIndex + 1) % n
			appModel.Input = appModel.Session.FollowUps[appModel.FollowUpIndex]
		}
		return nil, true
	case "ctrl+n":
		if send(appModel, eb, eventbus.NewChatEvent{}) {
			appModel.ChartModes = make(map[int]viz.ChartType)
			appModel.SetStatus("New chat", false)
		}
		return nil, true
	case "ctrl+g":
		if i := appModel.LastResult(); i >= 0 {
			mode := appModel.ChartModes[i]
			if mode == "" {
				mode = viz.Auto
			}
			appModel.ChartModes[i] = mode.Next()
			appModel.SetStatus("Chart: "+string(appModel.ChartModes[i]), false)
		}
		return nil, true
	case "ctrl+f":
		appModel.ExportFormat = appModel.ExportFormat.Next()
		appModel.SetStatus("Export format: "+string(appModel.ExportFormat), false)
		return nil, true
	case "ctrl+e":
		i := appModel.LastResult()
		if i < 0 {
			appModel.SetStatus("No results to export", false)
			return nil, true
		}
		return ExportResultCmd(appModel.ExportDir, appModel.Session.Messages[i].Data, appModel.ExportFormat), true
	case "ctrl+t":
		return ExportTranscriptCmd(appModel), true
	case "ctrl+r":
		send(appModel, eb, eventbus.RefreshConversationsEvent{})
		return nil, true
	case "alt+up", "ctrl+up":
		if appModel.HistoryCursor > 0 {
			appModel.HistoryCursor--
		}
		return nil, true
	case "alt+down", "ctrl+down":
		if appModel.HistoryCursor < len(appModel.Session.Conversations)-1 {
			appModel.HistoryCursor++
		}
		return nil, true
	case "ctrl+o":
		if c, ok := selectedConversation(appModel); ok {
			send(appModel, eb, eventbus.SelectConversationEvent{ID: c})
		}
		return nil, true
	case "ctrl+d":
		if c, ok := selectedConversation(appModel); ok {
			send(appModel, eb, eventbus.DeleteConversationEvent{ID: c})
		}
		return nil, true
	}
	return nil, false
}

func handleGateKey(appModel *AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) tea.Cmd {
	switch strings.ToLower(keyMsg.String()) {
	case "y":
		send(appModel, eb, eventbus.ConfirmationResponseEvent{Approved: true})
	case "n", "esc":
		send(appModel, eb, eventbus.ConfirmationResponseEvent{Approved: false})
	}
	return nil
}

func selectedConversation(appModel *AppModel) (int64, bool) {
	list := appModel.Session.Conversations
	if appModel.HistoryCursor < 0 || appModel.HistoryCursor >= len(list) {
		return 0, false
	}
	return list[appModel.HistoryCursor].ID, true
}

func send(appModel *AppModel, eb *eventbus.EventBus, ev eventbus.UIEvent) bool {
	if err := eb.SendToCore(ev); err != nil {
		appModel.SetStatus("Error sending event: "+err.Error(), true)
		return false
	}
	return true
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.StateUpdateEvent:
		prev := appModel.Session
		next := event.Snapshot
		if (prev.ActiveID != 0 && next.ActiveID != prev.ActiveID) || len(next.Messages) < len(prev.Messages) {
			appModel.ChartModes = make(map[int]viz.ChartType)
		}
		if len(next.Messages) != len(prev.Messages) {
			appModel.Dirty = true
		}
		if len(next.FollowUps) == 0 {
			appModel.FollowUpIndex = -1
		}
		if appModel.HistoryCursor >= len(next.Conversations) {
			appModel.HistoryCursor = max(len(next.Conversations)-1, 0)
		}
		appModel.Session = next

		switch {
		case next.Pending != nil && !next.InFlight:
			appModel.SetStatus("Confirmation required", false)
		case next.InFlight:
			appModel.SetStatus("Thinking (enter or esc to cancel)", false)
		default:
			appModel.SetStatus("Ready", false)
		}
	case eventbus.NoticeEvent:
		appModel.SetStatus(event.Text, event.IsError)
	}
	return nil
}

func HandleWindowSizeMsg(appModel *AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

// ExportResultCmd writes rows to a timestamped file off the UI goroutine.
func ExportResultCmd(dir string, rows []models.Row, format export.Format) tea.Cmd {
	return func() tea.Msg {
		path, err := export.ToFile(dir, rows, format, time.Now())
		switch {
		case err != nil:
			return NoticeMsg{Text: "Export failed: " + err.Error(), IsError: true}
		case path == "":
			return NoticeMsg{Text: "No results to export"}
		}
		return NoticeMsg{Text: "Exported to " + path}
	}
}

// ExportTranscriptCmd saves the visible chat as text.
func ExportTranscriptCmd(appModel *AppModel) tea.Cmd {
	dir := appModel.ExportDir
	msgs := appModel.Session.Messages
	return func() tea.Msg {
		path, err := export.TranscriptToFile(dir, msgs, time.Now())
		switch {
		case err != nil:
			return NoticeMsg{Text: "Export failed: " + err.Error(), IsError: true}
		case path == "":
			return NoticeMsg{Text: "Nothing to export yet"}
		}
		return NoticeMsg{Text: "Chat saved to " + path}
	}
}
