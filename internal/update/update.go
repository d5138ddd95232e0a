package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/RoriQuery/internal/eventbus"
)

// HandleUpdateWithEventBus routes a message for the chat screen. handled is
// false for keys the caller should pass on to the text input.
func HandleUpdateWithEventBus(appModel *AppModel, msg tea.Msg, eb *eventbus.EventBus) (cmd tea.Cmd, handled bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsgWithEventBus(appModel, msg, eb)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil, true
	case CoreEventMsg:
		return HandleCoreEvent(appModel, msg), true
	case NoticeMsg:
		appModel.SetStatus(msg.Text, msg.IsError)
		return nil, true
	}
	return nil, false
}
