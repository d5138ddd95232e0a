package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/RoriQuery/internal/analytics"
	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/internal/dispatcher"
	"github.com/Rorical/RoriQuery/internal/eventbus"
	"github.com/Rorical/RoriQuery/internal/nav"
	"github.com/Rorical/RoriQuery/internal/update"
	"github.com/Rorical/RoriQuery/ui/components"
	"github.com/Rorical/RoriQuery/ui/styles"
)

const sidebarWidth = 30

// AppModel is the root Bubble Tea model. It owns the route and the widgets;
// chat state comes from the core through the dispatcher.
type AppModel struct {
	deps       *Deps
	dispatcher *dispatcher.EventDispatcher
	theme      styles.Theme
	route      nav.Route
	startPath  string

	chat     update.AppModel
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	markdown *components.Markdown

	login loginForm

	profile    *api.User
	board      *analytics.Board
	filters    *analytics.Filters
	boardQuery api.LeaderboardQuery
	metrics    *api.SuperAdminMetrics
	loading    bool

	width  int
	height int
}

func NewAppModel(deps *Deps, disp *dispatcher.EventDispatcher, startPath string) *AppModel {
	theme := styles.Get(deps.Config.GetTheme())

	input := textinput.New()
	input.Placeholder = "Ask a question about your data…"
	input.Prompt = "› "
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	return &AppModel{
		deps:       deps,
		dispatcher: disp,
		theme:      theme,
		startPath:  startPath,
		chat:       update.NewAppModel(deps.Config.GetExportDir()),
		input:      input,
		viewport:   viewport.New(80, 20),
		spinner:    sp,
		markdown:   components.NewMarkdown(theme.Glamour, 76),
		login:      newLoginForm(deps.Config.Current().Email),
		boardQuery: api.LeaderboardQuery{Category: api.CategoryAll, Limit: analytics.DefaultLimit},
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.dispatcher.ListenForCoreEvents(),
		m.navigate(m.startPath),
	)
}

func (m *AppModel) eventBus() *eventbus.EventBus {
	return m.dispatcher.GetEventBus()
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case update.CoreEventMsg:
		var cmd tea.Cmd
		if ne, ok := msg.Event.(eventbus.NavigateEvent); ok {
			cmd = m.navigate(ne.Path)
		} else {
			cmd = update.HandleCoreEvent(&m.chat, msg)
			m.refreshTranscript()
		}
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		update.HandleWindowSizeMsg(&m.chat, msg)
		m.layout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case update.NoticeMsg:
		m.chat.SetStatus(msg.Text, msg.IsError)
		return m, nil

	case loginResultMsg:
		return m, m.handleLoginResult(msg)
	case profileLoadedMsg:
		return m, m.handleProfile(msg)
	case boardLoadedMsg:
		return m, m.handleBoard(msg)
	case filtersLoadedMsg:
		return m, m.handleFilters(msg)
	case metricsLoadedMsg:
		return m, m.handleMetrics(msg)

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	}

	if m.route == nav.Login {
		return m.updateLogin(msg)
	}

	switch msg.String() {
	case "f1":
		return m.navigate(string(nav.Dashboard))
	case "f2":
		return m.navigate(string(nav.Chat))
	case "f3":
		return m.navigate(string(nav.Leaderboard))
	case "f4":
		if m.deps.Session.IsSuperAdmin() {
			return m.navigate(string(nav.SuperAdmin))
		}
		return nil
	case "ctrl+l":
		return m.logout()
	}

	switch m.route {
	case nav.Chat:
		return m.updateChat(msg)
	case nav.Leaderboard:
		return m.updateLeaderboard(msg)
	case nav.Dashboard, nav.SuperAdmin:
		if msg.String() == "r" {
			return m.loadRoute()
		}
		if msg.String() == "q" {
			return tea.Quit
		}
	}
	return nil
}

// navigate resolves path against the session and switches screens.
func (m *AppModel) navigate(path string) tea.Cmd {
	r := nav.Resolve(path, m.deps.Session.Authenticated())
	if r == nav.SuperAdmin && !m.deps.Session.IsSuperAdmin() {
		r = nav.Dashboard
	}
	m.route = r
	m.chat.SetStatus(r.Title(), false)
	if r == nav.Login {
		m.login.reset(m.deps.Config.Current().Email)
		return textinput.Blink
	}
	return m.loadRoute()
}

func (m *AppModel) loadRoute() tea.Cmd {
	switch m.route {
	case nav.Dashboard:
		m.loading = true
		return loadProfileCmd(m.deps.Client)
	case nav.Chat:
		if err := m.eventBus().SendToCore(eventbus.RefreshConversationsEvent{}); err != nil {
			m.chat.SetStatus("Error sending event: "+err.Error(), true)
		}
		m.refreshTranscript()
		return textinput.Blink
	case nav.Leaderboard:
		m.loading = true
		return tea.Batch(
			loadBoardCmd(m.deps.Client, m.boardQuery),
			loadFiltersCmd(m.deps.Client, m.boardQuery.CollegeID),
		)
	case nav.SuperAdmin:
		m.loading = true
		return loadMetricsCmd(m.deps.Client)
	}
	return nil
}

func (m *AppModel) logout() tea.Cmd {
	_ = m.eventBus().SendToCore(eventbus.NewChatEvent{})
	m.profile, m.board, m.filters, m.metrics = nil, nil, nil, nil
	if err := m.deps.Session.SignOut(); err != nil {
		m.chat.SetStatus("Logout failed: "+err.Error(), true)
		return nil
	}
	// SignOut navigates through the bus; switch now so no protected
	// screen is drawn in between.
	return m.navigate(string(nav.Login))
}

func (m *AppModel) layout() {
	w := m.width - sidebarWidth - 2
	if w < 40 {
		w = m.width
	}
	m.viewport.Width = w
	m.viewport.Height = max(m.height-12, 5)
	m.input.Width = max(w-8, 10)
	m.markdown.Resize(w - 8)
	m.refreshTranscript()
}

// refreshTranscript redraws the message list, following the newest message
// when it changed.
func (m *AppModel) refreshTranscript() {
	m.input.SetValue(m.chat.Input)
	m.input.CursorEnd()
	content := components.RenderMessages(m.chat.Session.Messages, components.MessageView{
		Theme:      m.theme,
		Width:      m.viewport.Width,
		Markdown:   m.markdown,
		ChartModes: m.chat.ChartModes,
	})
	m.viewport.SetContent(content)
	if m.chat.Dirty {
		m.viewport.GotoBottom()
		m.chat.Dirty = false
	}
}

func (m *AppModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.route {
	case nav.Login:
		b.WriteString(m.viewLogin())
	case nav.Chat:
		b.WriteString(m.viewChat())
	case nav.Leaderboard:
		b.WriteString(m.viewLeaderboard())
	case nav.SuperAdmin:
		b.WriteString(components.RenderMetrics(m.metrics, m.theme, m.width))
	default:
		b.WriteString(components.RenderProfile(m.profile, m.theme, min(m.width-2, 70)))
	}

	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.chat.Status, m.chat.StatusIsError, m.spin(), m.hints(), m.theme, m.width))
	return b.String()
}

func (m *AppModel) spin() string {
	if m.loading || m.chat.Session.InFlight {
		return m.spinner.View()
	}
	return ""
}

func (m *AppModel) renderTabs() string {
	if m.route == nav.Login {
		return m.theme.TitleStyle().Render("RoriQuery")
	}
	menu := nav.Menu(m.deps.Session.IsSuperAdmin())
	tabs := make([]string, 0, len(menu)+1)
	tabs = append(tabs, m.theme.TitleStyle().Render("RoriQuery"))
	for i, r := range menu {
		label := "F" + string(rune('1'+i)) + " " + r.Title()
		tabs = append(tabs, m.theme.TabStyle(r == m.route).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, tabs...)
}

func (m *AppModel) hints() string {
	switch m.route {
	case nav.Login:
		return "tab: next field · enter: sign in"
	case nav.Chat:
		if m.chat.Awaiting() {
			return "y: confirm · n: cancel"
		}
		return "ctrl+n new · ctrl+g chart · ctrl+e export (" + string(m.chat.ExportFormat) + ") · ctrl+t transcript · ctrl+l logout"
	case nav.Leaderboard:
		return "tab: category · c/o/d/b/s: filters · r: reload"
	}
	return "r: reload · ctrl+l logout · q: quit"
}
