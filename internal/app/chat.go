package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriQuery/internal/update"
	"github.com/Rorical/RoriQuery/ui/components"
)

// updateChat gives the chat handlers first pick of the key; anything they
// leave goes to the text input or, for paging keys, the viewport.
func (m *AppModel) updateChat(msg tea.KeyMsg) tea.Cmd {
	m.chat.Input = m.input.Value()
	cmd, handled := update.HandleUpdateWithEventBus(&m.chat, msg, m.eventBus())
	if handled {
		if m.input.Value() != m.chat.Input {
			m.input.SetValue(m.chat.Input)
			m.input.CursorEnd()
		}
		m.refreshTranscript()
		return cmd
	}

	switch msg.String() {
	case "pgup", "pgdown", "ctrl+u", "ctrl+b":
		var vcmd tea.Cmd
		m.viewport, vcmd = m.viewport.Update(msg)
		return vcmd
	}

	var icmd tea.Cmd
	m.input, icmd = m.input.Update(msg)
	m.chat.Input = m.input.Value()
	return icmd
}

func (m *AppModel) viewChat() string {
	var main strings.Builder
	main.WriteString(m.viewport.View())
	main.WriteString("\n")

	if m.chat.Awaiting() {
		main.WriteString(components.RenderGate(m.chat.Session.Pending, m.theme, m.viewport.Width))
		main.WriteString("\n")
	} else {
		if chips := components.RenderFollowUps(m.chat.Session.FollowUps, m.chat.FollowUpIndex, m.theme); chips != "" && !m.chat.Session.InFlight {
			main.WriteString(chips)
			main.WriteString("\n")
		}
		main.WriteString(components.RenderInput(m.input.View(), m.theme, m.viewport.Width))
	}

	if m.width-sidebarWidth-2 < 40 {
		return main.String()
	}
	sidebar := components.RenderConversations(
		m.chat.Session.Conversations,
		m.chat.HistoryCursor,
		m.chat.Session.ActiveID,
		m.theme,
		sidebarWidth,
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main.String())
}
