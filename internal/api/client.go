// Package api is the HTTP/JSON client for the assistant backend: auth,
// inference, conversation storage and analytics.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Rorical/RoriQuery/internal/auth"
)

const maxErrorBody = 64 << 10

// Client issues REST calls against one backend. Authenticated calls read the
// bearer token from the session at call time; a 401 is handed to the session,
// which clears the token and redirects to login.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *auth.Session
	limiter    *rate.Limiter
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRateLimit caps outgoing requests per second. Zero or negative disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

func NewClient(baseURL string, session *auth.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client timeout: the inference call can run long and is
		// cancelled through its context instead.
		httpClient: &http.Client{},
		session:    session,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Session() *auth.Session {
	return c.session
}

type call struct {
	method        string
	path          string
	body          any
	out           any
	authenticated bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
		}
	}

	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", cl.method, cl.path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", cl.method, cl.path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var token string
	if cl.authenticated && c.session != nil {
		token = c.session.Token()
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", cl.method),
			zap.String("path", cl.path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized && cl.authenticated && c.session != nil {
		c.session.HandleUnauthorized(token)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Method:     cl.method,
			Path:       cl.path,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(body),
		}
	}

	if cl.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return fmt.Errorf("decode %s %s: %w", cl.method, cl.path, err)
	}
	return nil
}
