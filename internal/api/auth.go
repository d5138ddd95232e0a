package api

import (
	"context"
	"errors"
	"net/http"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	RoleID      int    `json:"role_id"`
}

// User is the profile returned by /auth/me.
type User struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	RollNo              string `json:"roll_no,omitempty"`
	Role                string `json:"role"`
	College             string `json:"college"`
	Department          string `json:"department"`
	StatsChatCount      int    `json:"stats_chat_count"`
	StatsWordsGenerated int    `json:"stats_words_generated"`
	ActiveStreak        int    `json:"active_streak"`
}

// Login exchanges credentials for a token. It does not touch the session;
// callers decide whether to sign in with the result.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   LoginRequest{Email: email, Password: password},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	err := c.do(ctx, call{
		method:        http.MethodGet,
		path:          "/auth/me",
		out:           &out,
		authenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginErrorText is the message shown for a failed login: the server's
// detail when it sent one, else a generic hint.
func LoginErrorText(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return "Login failed. Please check your credentials."
	}
	return "An error occurred. Please try again later."
}
