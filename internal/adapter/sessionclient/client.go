// Package sessionclient provides an HTTP client for the session API.
package sessionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/xiaot623/gogo/lecturechat/internal/domain"
)

const (
	defaultTimeout = 5 * time.Second
	// 10 requests/second with a burst of 5 per client
	defaultRate  = 10
	defaultBurst = 5
)

// Client talks to a remote session server. Its methods mirror the service
// so either can back a sync client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit replaces the outbound request limiter.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(r, burst)
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(defaultRate, defaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks that the server answers its liveness probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: liveness returned status %d", domain.ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// PollInterval returns the refresh interval the server advertises, or 0.
func (c *Client) PollInterval(ctx context.Context) (time.Duration, error) {
	var resp domain.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return 0, fmt.Errorf("failed to get health: %w", err)
	}
	return time.Duration(resp.PollIntervalMS) * time.Millisecond, nil
}

// CreateSession creates a session and returns its id.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var resp domain.CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, "/session", nil, &resp); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return resp.SessionID, nil
}

// GetSession fetches the full session snapshot.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var resp domain.GetSessionResponse
	if err := c.do(ctx, http.MethodGet, sessionPath(sessionID, ""), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if resp.Session == nil {
		return nil, fmt.Errorf("failed to get session: %w", domain.ErrNotFound)
	}
	return resp.Session, nil
}

// GetMessages fetches messages appended after the given message id.
func (c *Client) GetMessages(ctx context.Context, sessionID, after string) ([]domain.Message, error) {
	path := sessionPath(sessionID, "/messages")
	if after != "" {
		path += "?after=" + url.QueryEscape(after)
	}
	var resp domain.MessagesResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return resp.Messages, nil
}

// JoinLink returns the link students open to join the session.
func (c *Client) JoinLink(ctx context.Context, sessionID string) (string, error) {
	var resp domain.JoinLinkResponse
	if err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "/link"), nil, &resp); err != nil {
		return "", fmt.Errorf("failed to get join link: %w", err)
	}
	return resp.JoinURL, nil
}

// Join records a participant.
func (c *Client) Join(ctx context.Context, sessionID, name string) error {
	body := domain.ParticipantRequest{Username: name}
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/participant"), body, &domain.SuccessResponse{}); err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

// Leave announces that a participant left.
func (c *Client) Leave(ctx context.Context, sessionID, name string) error {
	body := domain.ParticipantRequest{Username: name}
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/leave"), body, &domain.SuccessResponse{}); err != nil {
		return fmt.Errorf("failed to leave session: %w", err)
	}
	return nil
}

// SendMessage appends a chat message.
func (c *Client) SendMessage(ctx context.Context, sessionID, username, text string, role domain.Role) (*domain.Message, error) {
	body := domain.SendMessageRequest{Username: username, Message: text, Type: role}
	var resp domain.SendMessageResponse
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "/message"), body, &resp); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return resp.Message, nil
}

func sessionPath(sessionID, suffix string) string {
	return "/session/" + url.PathEscape(sessionID) + suffix
}

// do sends one JSON request and decodes the reply into out. Failures are
// mapped onto the domain errors: 404 → ErrNotFound, 400 → ErrValidation,
// 409 → ErrAlreadyExists, transport errors and everything else → ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %w", domain.ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, data)
	}

	var ack domain.SuccessResponse
	if err := json.Unmarshal(data, &ack); err != nil {
		return fmt.Errorf("%w: invalid response body: %w", domain.ErrUnavailable, err)
	}
	if !ack.Success {
		return domain.ErrNotFound
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: invalid response body: %w", domain.ErrUnavailable, err)
	}
	return nil
}

func statusError(status int, body []byte) error {
	var errResp domain.ErrorResponse
	_ = json.Unmarshal(body, &errResp)
	detail := errResp.Message
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, detail)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", domain.ErrValidation, detail)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrAlreadyExists, detail)
	default:
		return fmt.Errorf("%w: server returned status %d: %s", domain.ErrUnavailable, status, detail)
	}
}
