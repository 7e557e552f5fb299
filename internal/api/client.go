// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeranaias/panda-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Status  int
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeAuth
	ErrTypeServer
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnreachable  = &ClientError{Type: ErrTypeConnection, Message: "backend is unreachable"}
	ErrMissingToken = &ClientError{Type: ErrTypeAuth, Message: "not logged in"}
)

// ServerMessage extracts the backend-supplied message from an application
// error, or "" for transport-level failures.
func ServerMessage(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) && (ce.Type == ErrTypeServer || ce.Type == ErrTypeAuth) {
		return ce.Message
	}
	return ""
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:5000)
	BaseURL string

	// Timeout per request (default: 30s). The free-tier backend can take
	// 20-40s to wake from cold start, so this is deliberately generous.
	Timeout time.Duration

	// MaxResponseSize caps response bodies (default: 10MB).
	MaxResponseSize int64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:         "http://127.0.0.1:5000",
		Timeout:         30 * time.Second,
		MaxResponseSize: 10 * 1024 * 1024,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Panda backend.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a client for the given base URL; an empty URL falls
// back to the default.
func NewClient(baseURL string) *Client {
	cfg := DefaultConfig()
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:5000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxResponseSize == 0 {
		config.MaxResponseSize = 10 * 1024 * 1024
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			// PERFORMANCE: Connection pooling reduces TCP handshake overhead
			// on the per-keystroke save path.
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return strings.TrimSuffix(c.config.BaseURL, "/")
}

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Register creates a new account. The backend replies with a message that
// callers render as "registration succeeded, please log in".
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := RegisterRequest{Name: name, Email: email, Password: password}
	return c.doJSON(ctx, http.MethodPost, "/register", "", body, nil)
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	body := LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the session server-side. Token deletion is the
// client's responsibility.
func (c *Client) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}
	return c.doJSON(ctx, http.MethodPost, "/logout", token, nil, nil)
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// ListChats fetches the authenticated identity's sessions in server order.
func (c *Client) ListChats(ctx context.Context, token string) ([]*model.Session, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	var out chatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/chats", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Chats, nil
}

// SaveChat upserts one session.
func (c *Client) SaveChat(ctx context.Context, token string, sess *model.Session) error {
	if token == "" {
		return ErrMissingToken
	}
	return c.doJSON(ctx, http.MethodPost, "/chats", token, sess, nil)
}

// DeleteChat removes one session by id.
func (c *Client) DeleteChat(ctx context.Context, token, id string) error {
	if token == "" {
		return ErrMissingToken
	}
	return c.doJSON(ctx, http.MethodDelete, "/chats/"+url.PathEscape(id), token, nil, nil)
}

// ClearChats removes every session for the identity.
func (c *Client) ClearChats(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}
	return c.doJSON(ctx, http.MethodDelete, "/chats", token, nil, nil)
}

// =============================================================================
// SENTIMENT OPERATIONS
// =============================================================================

// AnalyzeSentiment scores one message. The endpoint is unauthenticated.
func (c *Client) AnalyzeSentiment(ctx context.Context, message string) (*SentimentResult, error) {
	var out SentimentResult
	if err := c.doJSON(ctx, http.MethodPost, "/analyze-sentiment", "", sentimentRequest{Message: message}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON issues one JSON request and decodes the response into out (when
// non-nil). Non-2xx responses are surfaced as ClientErrors carrying the
// backend's error envelope message.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL()+path, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeConnection, Message: "backend is unreachable", Cause: err}
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, c.config.MaxResponseSize)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp.StatusCode, limited)
	}

	if out == nil {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, limited)
		return nil
	}

	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// errorFromResponse builds a ClientError from a non-2xx response, decoding
// the {"error": ...} envelope when present.
func (c *Client) errorFromResponse(status int, body io.Reader) error {
	msg := ""
	var envelope apiErrorResponse
	if err := json.NewDecoder(body).Decode(&envelope); err == nil {
		if envelope.Error != "" {
			msg = envelope.Error
		} else {
			msg = envelope.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	errType := ErrTypeServer
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		errType = ErrTypeAuth
	}
	return &ClientError{Type: errType, Message: msg, Status: status}
}
