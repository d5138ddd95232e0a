package app

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/RoriQuery/internal/analytics"
	"github.com/Rorical/RoriQuery/internal/api"
	"github.com/Rorical/RoriQuery/internal/nav"
)

const requestTimeout = 30 * time.Second

type profileLoadedMsg struct {
	user *api.User
	err  error
}

type boardLoadedMsg struct {
	board *analytics.Board
	err   error
}

type filtersLoadedMsg struct {
	filters *analytics.Filters
	err     error
}

type metricsLoadedMsg struct {
	metrics *api.SuperAdminMetrics
	err     error
}

func loadProfileCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		u, err := client.Me(ctx)
		return profileLoadedMsg{user: u, err: err}
	}
}

func loadBoardCmd(src analytics.Source, q api.LeaderboardQuery) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		b, err := analytics.LoadBoard(ctx, src, q)
		return boardLoadedMsg{board: b, err: err}
	}
}

func loadFiltersCmd(src analytics.Source, collegeID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		f, err := analytics.LoadFilters(ctx, src, collegeID)
		return filtersLoadedMsg{filters: f, err: err}
	}
}

func loadMetricsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		mt, err := client.SuperAdminMetrics(ctx)
		return metricsLoadedMsg{metrics: mt, err: err}
	}
}

// loadFailed reports a screen load error. A 401 has already been handled
// by the session, so it only needs a status line.
func (m *AppModel) loadFailed(what string, err error) {
	m.deps.Logger.Warn("load failed", zap.String("what", what), zap.Error(err))
	if errors.Is(err, api.ErrUnauthorized) {
		m.chat.SetStatus("Session expired. Please log in again.", true)
		return
	}
	m.chat.SetStatus("Could not load "+what+": "+err.Error(), true)
}

func (m *AppModel) handleProfile(msg profileLoadedMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		m.loadFailed("profile", msg.err)
		return nil
	}
	m.profile = msg.user
	m.chat.SetStatus("Ready", false)
	return nil
}

func (m *AppModel) handleBoard(msg boardLoadedMsg) tea.Cmd {
	m.loading = false
	if msg.err != nil {
		m.loadFailed("leaderboard", msg.err)
		return nil
	}
	m.board = msg.board
	m.chat.SetStatus("Ready", false)
	return nil
}

func (m *AppModel) handleFilters(msg filtersLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.loadFailed("filters", msg.err)
		return nil
	}
	m.filters = msg.filters
	return nil
}

// handleMetrics sends a caller without the super-admin role to the login
// screen, as the backend's 403 demands.
func (m *AppModel) handleMetrics(msg metricsLoadedMsg) tea.Cmd {
	m.loading = false
	if errors.Is(msg.err, api.ErrForbidden) {
		m.chat.SetStatus("Super admin access required", true)
		return m.navigate(string(nav.Login))
	}
	if msg.err != nil {
		m.loadFailed("metrics", msg.err)
		return nil
	}
	m.metrics = msg.metrics
	m.chat.SetStatus("Ready", false)
	return nil
}
