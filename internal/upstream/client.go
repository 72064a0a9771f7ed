// Package upstream is the single point of outbound communication with the
// care backend REST API. Every request carries JSON headers and, when the
// calling context belongs to a session, a bearer token. A 401 from any
// endpoint invalidates that session and surfaces ErrUnauthorized; no caller
// interprets a 401 body on its own.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/capitalcare/care-console/internal/api/metrics"
	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

const defaultTimeout = 15 * time.Second

// Config captures the settings for reaching the care backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the care backend. It holds no session state of its own;
// tokens are read from the request context and the only session mutation it
// may trigger is the 401 invalidation hook.
type Client struct {
	baseURL        string
	http           *http.Client
	log            zerolog.Logger
	onUnauthorized func(ctx context.Context, sid string)
}

// New builds a Client. A default timeout is applied when none is configured.
func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// OnUnauthorized registers the session-invalidation hook called on any 401
// received for an authenticated request. Set once during composition.
func (c *Client) OnUnauthorized(fn func(ctx context.Context, sid string)) {
	c.onUnauthorized = fn
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := domain.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(method, "none").Inc()
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(method, "none").Inc()
		return nil, &domain.NetworkError{Err: err}
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("upstream request")

	if resp.StatusCode == http.StatusUnauthorized {
		if sess, ok := domain.SessionFromContext(ctx); ok && c.onUnauthorized != nil {
			c.onUnauthorized(ctx, sess.ID)
		}
		return nil, domain.ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return nil, &domain.RequestError{Status: resp.StatusCode, Message: serverMessage(data)}
	}
	return data, nil
}

// serverMessage pulls the error text out of an upstream failure payload,
// falling back to a generic message when the body carries none.
func serverMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return "request failed"
}

// Login authenticates against POST /auth/login. The response is expected to
// carry {token, user}; the legacy access_token spelling is accepted too.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (*ports.LoginResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Token       string      `json:"token"`
		AccessToken string      `json:"access_token"`
		User        domain.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("login response: %w", domain.ErrShapeMismatch)
	}
	token := resp.Token
	if token == "" {
		token = resp.AccessToken
	}
	if token == "" {
		return nil, fmt.Errorf("login response missing token: %w", domain.ErrShapeMismatch)
	}
	return &ports.LoginResult{Token: token, User: resp.User}, nil
}

// Profile fetches the authenticated user's own record.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	raw, err := c.do(ctx, http.MethodGet, "/auth/profile", nil)
	if err != nil {
		return nil, err
	}
	user, err := decodeEntity[domain.User](raw)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the authenticated user's own record.
func (c *Client) UpdateProfile(ctx context.Context, in ports.ProfileInput) (*domain.User, error) {
	raw, err := c.do(ctx, http.MethodPut, "/auth/profile", map[string]string{
		"name":  in.Name,
		"email": in.Email,
	})
	if err != nil {
		return nil, err
	}
	user, err := decodeEntity[domain.User](raw)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
