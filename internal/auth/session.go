// Package auth owns the client side of the login session: where the bearer
// token lives and what happens when the backend rejects it.
package auth

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Rorical/RoriQuery/internal/nav"
)

// Role ids assigned by the backend.
const (
	RoleSuperAdmin = 1
	RoleAdmin      = 2
	RoleStudent    = 7
)

// TokenStore is the persisted token storage.
type TokenStore interface {
	Token() string
	RoleID() int
	SetToken(token string, roleID int) error
	ClearToken() error
}

// Session is passed to every component that needs the token. It replaces
// ad-hoc reads of global storage.
type Session struct {
	store     TokenStore
	navigator nav.Navigator
	logger    *zap.Logger
	mu        sync.Mutex
	hooks     []func()
}

func NewSession(store TokenStore, navigator nav.Navigator, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:     store,
		navigator: navigator,
		logger:    logger,
	}
}

// Token reads the token from storage; it is never cached here.
func (s *Session) Token() string {
	return s.store.Token()
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) RoleID() int {
	return s.store.RoleID()
}

func (s *Session) IsSuperAdmin() bool {
	return s.RoleID() == RoleSuperAdmin
}

// SetNavigator swaps the navigation target, e.g. once the TUI is running.
func (s *Session) SetNavigator(n nav.Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navigator = n
}

// OnChange registers fn to run after the signed-in account changes: sign
// in, sign out and a session cleared by a 401. Hooks run without the
// session lock held.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Session) SignIn(token string, roleID int) error {
	s.mu.Lock()
	err := s.store.SetToken(token, roleID)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.changed()
	return nil
}

func (s *Session) SignOut() error {
	s.mu.Lock()
	if err := s.store.ClearToken(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.changed()

	s.mu.Lock()
	s.navigate(nav.Login)
	s.mu.Unlock()
	return nil
}

// HandleUnauthorized reacts to a 401 for a request sent with token used. The
// token is cleared and the shell sent to /login once; later 401s for the same
// stale token, or for a token that has since been replaced, are ignored.
func (s *Session) HandleUnauthorized(used string) {
	s.mu.Lock()
	current := s.store.Token()
	if current == "" || current != used {
		s.mu.Unlock()
		return
	}
	if err := s.store.ClearToken(); err != nil {
		s.logger.Error("clear token after 401", zap.Error(err))
	}
	s.mu.Unlock()
	s.changed()

	s.logger.Info("session expired, redirecting to login")
	s.mu.Lock()
	s.navigate(nav.Login)
	s.mu.Unlock()
}

func (s *Session) changed() {
	s.mu.Lock()
	hooks := append([]func(){}, s.hooks...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

func (s *Session) navigate(r nav.Route) {
	if s.navigator != nil {
		s.navigator.Navigate(string(r))
	}
}
