package claude

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeWithoutKey(t *testing.T) {
	c := New("", zerolog.Nop())
	assert.False(t, c.Enabled())

	_, err := c.Summarize(context.Background(), "case status", "{}")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSummarize(t *testing.T) {
	var gotPath, gotKey, gotVersion string
	var gotReq messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [{"type": "text", "text": "The case was approved."}]}`))
	}))
	t.Cleanup(srv.Close)

	c := New("sk-ant-test", zerolog.Nop())
	c.baseURL = srv.URL

	summary, err := c.Summarize(context.Background(), "case status for EAC9999103402", `{"case_status": {}}`)
	require.NoError(t, err)
	assert.Equal(t, "The case was approved.", summary)

	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "sk-ant-test", gotKey)
	assert.Equal(t, "2023-06-01", gotVersion)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, "case status for EAC9999103402")
	assert.Contains(t, gotReq.Messages[0].Content, `{"case_status": {}}`)
}

func TestSummarizeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"type": "rate_limit_error"}}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := New("sk-ant-test", zerolog.Nop())
	c.baseURL = srv.URL

	_, err := c.Summarize(context.Background(), "case status", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestSummarizeRejectsEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": []}`))
	}))
	t.Cleanup(srv.Close)

	c := New("sk-ant-test", zerolog.Nop())
	c.baseURL = srv.URL

	_, err := c.Summarize(context.Background(), "case status", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text block")
}
