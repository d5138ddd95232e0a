package config

import "fmt"

// TokenStore persists the bearer token of the active profile. Every read goes
// back to disk so a login from another terminal is picked up on the next call.
type TokenStore struct {
	cfg *Config
}

func NewTokenStore(cfg *Config) *TokenStore {
	return &TokenStore{cfg: cfg}
}

func (s *TokenStore) Token() string {
	if s.cfg.Path() == "" {
		return s.cfg.Current().Token
	}
	fresh, err := LoadConfigFrom(s.cfg.Path())
	if err != nil {
		return s.cfg.Current().Token
	}
	active := s.cfg.Active()
	fresh.mu.Lock()
	p, ok := fresh.Profiles[active]
	fresh.mu.Unlock()
	if !ok {
		return s.cfg.Current().Token
	}
	return p.Token
}

func (s *TokenStore) SetToken(token string, roleID int) error {
	if err := s.cfg.UpdateProfile(func(p *Profile) {
		p.Token = token
		p.RoleID = roleID
	}); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (s *TokenStore) ClearToken() error {
	if err := s.cfg.UpdateProfile(func(p *Profile) {
		p.Token = ""
		p.RoleID = 0
	}); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (s *TokenStore) RoleID() int {
	return s.cfg.Current().RoleID
}
