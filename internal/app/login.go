package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/internal/config"
	"github.com/Rorical/RoriQuery/internal/nav"
)

type loginForm struct {
	email      textinput.Model
	password   textinput.Model
	focus      int
	err        string
	submitting bool
}

type loginResultMsg struct {
	email string
	resp  *api.LoginResponse
	err   error
}

func newLoginForm(email string) loginForm {
	e := textinput.New()
	e.Placeholder = "you@college.edu"
	e.Prompt = "Email    › "
	e.CharLimit = 254

	p := textinput.New()
	p.Placeholder = "password"
	p.Prompt = "Password › "
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'

	f := loginForm{email: e, password: p}
	f.reset(email)
	return f
}

func (f *loginForm) reset(email string) {
	f.email.SetValue(email)
	f.password.SetValue("")
	f.err = ""
	f.submitting = false
	f.focus = 0
	if email != "" {
		f.focus = 1
	}
	f.applyFocus()
}

func (f *loginForm) applyFocus() {
	if f.focus == 0 {
		f.email.Focus()
		f.password.Blur()
	} else {
		f.email.Blur()
		f.password.Focus()
	}
}

func (m *AppModel) updateLogin(msg tea.KeyMsg) tea.Cmd {
	f := &m.login
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		f.focus = 1 - f.focus
		f.applyFocus()
		return nil
	case "esc":
		return tea.Quit
	case "enter":
		if f.focus == 0 {
			f.focus = 1
			f.applyFocus()
			return nil
		}
		email := strings.TrimSpace(f.email.Value())
		password := f.password.Value()
		if email == "" || password == "" {
			f.err = "Email and password are required."
			return nil
		}
		if f.submitting {
			return nil
		}
		f.submitting = true
		f.err = ""
		m.loading = true
		return loginCmd(m.deps.Client, email, password)
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.email, cmd = f.email.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	return cmd
}

func loginCmd(client *api.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.Login(ctx, email, password)
		return loginResultMsg{email: email, resp: resp, err: err}
	}
}

func (m *AppModel) handleLoginResult(msg loginResultMsg) tea.Cmd {
	m.loading = false
	m.login.submitting = false
	if msg.err != nil {
		m.deps.Logger.Info("login failed", zap.String("email", msg.email), zap.Error(msg.err))
		m.login.err = api.LoginErrorText(msg.err)
		m.login.password.SetValue("")
		return nil
	}
	if err := m.deps.Session.SignIn(msg.resp.AccessToken, msg.resp.RoleID); err != nil {
		m.login.err = "Could not save session: " + err.Error()
		return nil
	}
	if err := m.deps.Config.UpdateProfile(func(p *config.Profile) { p.Email = msg.email }); err != nil {
		m.deps.Logger.Warn("remember email failed", zap.Error(err))
	}
	m.deps.Logger.Info("signed in", zap.String("email", msg.email), zap.Int("role_id", msg.resp.RoleID))
	return m.navigate(string(nav.Dashboard))
}

func (m *AppModel) viewLogin() string {
	f := &m.login
	lines := []string{
		m.theme.TitleStyle().Render("Sign in"),
		"",
		f.email.View(),
		f.password.View(),
		"",
	}
	if f.submitting {
		lines = append(lines, m.spinner.View()+" Signing in…")
	}
	if f.err != "" {
		lines = append(lines, m.theme.ErrorStyle().Render(f.err))
	}
	return m.theme.PanelStyle(min(max(m.width-4, 40), 70)).Render(strings.Join(lines, "\n"))
}
