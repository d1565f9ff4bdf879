// Package claude is a minimal client for the Anthropic Messages API, used
// by the console to summarize raw API responses on demand.
package claude

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	defaultModel   = "claude-3-5-haiku-latest"
	maxTokens      = 1024
)

// ErrNotConfigured is returned when summarization is requested without a
// CLAUDE_API_KEY in the environment.
var ErrNotConfigured = errors.New("summarization is not configured (set CLAUDE_API_KEY)")

// HTTPClient is an interface for making HTTP requests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues summarization requests. The zero API key produces a
// disabled client whose calls fail with ErrNotConfigured, so the console
// works without the optional integration.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient HTTPClient
	logger     zerolog.Logger
}

// New creates a summarization client. apiKey may be empty.
func New(apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger.With().Str("component", "claude").Logger(),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Summarize asks the model for a short plain-language summary of an API
// response body. subject names what the body is ("case status for
// EAC9999103402") so the summary can reference it.
func (c *Client) Summarize(ctx context.Context, subject, body string) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}

	prompt := fmt.Sprintf(
		"Summarize the following USCIS API response (%s) in two or three plain sentences for a case worker. Do not invent fields that are not present.\n\n%s",
		subject, body)

	payload, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal summarize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	c.logger.Info().Str("model", c.model).Str("subject", subject).Msg("Requesting summary")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summarize request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read summarize response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summarize failed with status %d: %s", resp.StatusCode, respBody)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse summarize response: %w", err)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("summarize response contained no text block")
}
