package uscis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPClient is an interface for making HTTP requests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func newHTTPClient() HTTPClient {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}

// Config holds everything needed to construct a Client. ClientID,
// ClientSecret and Environment come from the console's credentials;
// BaseURL and HTTPClient exist so tests can point the client at a stub.
type Config struct {
	ClientID     string
	ClientSecret string
	Environment  Environment

	// BaseURL overrides the environment's default host when non-empty.
	BaseURL string
	// HTTPClient overrides the default 30-second-timeout client when set.
	HTTPClient HTTPClient
}

// Validate checks that the required fields are set.
func (c Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("uscis: ClientID is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("uscis: ClientSecret is required")
	}
	return nil
}

// APIResponse is an upstream response passed through to the caller
// unmodified: status code, headers and raw body, even for non-2xx.
type APIResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client dispatches authenticated calls against the Torch API. Each call is
// independent and synchronous; there is no caching, retrying or batching
// inside Call.
type Client struct {
	env        Environment
	baseURL    string
	tokens     *TokenManager
	httpClient HTTPClient
	logger     zerolog.Logger
}

// New creates a Client and its token manager from the given config.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Environment == "" {
		cfg.Environment = Sandbox
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = cfg.Environment.BaseURL()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	return &Client{
		env:        cfg.Environment,
		baseURL:    baseURL,
		tokens:     NewTokenManager(cfg, logger),
		httpClient: httpClient,
		logger:     logger.With().Str("component", "uscis_client").Logger(),
	}, nil
}

// Environment returns the environment the client was built for.
func (c *Client) Environment() Environment { return c.env }

// Tokens exposes the client's token manager for status display and manual
// re-authentication from the console.
func (c *Client) Tokens() *TokenManager { return c.tokens }

// Call obtains a token, substitutes pathParams into the operation's URL
// template, attaches the Bearer header and issues the HTTP request. The
// upstream response comes back verbatim, non-2xx included; interpreting
// error payloads is the caller's job. A network-level failure with no
// response is a *TransportError, a failed token acquisition an
// *AuthenticationError.
func (c *Client) Call(ctx context.Context, op Operation, pathParams map[string]string, body []byte) (*APIResponse, error) {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	path, err := op.expandPath(pathParams)
	if err != nil {
		return nil, err
	}
	target := c.baseURL + path

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, op.Method(), target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Accept", "application/json")
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Info().
		Str("operation", string(op)).
		Str("method", op.Method()).
		Str("url", target).
		Msg("Dispatching API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, URL: target, Err: fmt.Errorf("reading response body: %w", err)}
	}

	c.logger.Info().
		Str("operation", string(op)).
		Int("status_code", resp.StatusCode).
		Int("body_bytes", len(respBody)).
		Msg("Received API response")

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
