package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageData mirrors the fields base.html reads so the real templates can be
// rendered under test.
type pageData struct {
	Title string
	Token struct {
		Authenticated    bool
		TokenType        string
		ExpiresAt        string
		SecondsRemaining int64
		APIProducts      []string
		Environment      string
	}
	Stats struct {
		OK           int
		ClientErrors int
		Total        int
	}
	Summarizer   bool
	TestReceipts []string

	Receipt    string
	Number     string
	StatusCode int
	RawBody    string
	Summary    string
	Error      string

	Entries []struct {
		Timestamp  time.Time
		Action     string
		Status     string
		HTTPStatus int
		Detail     string
	}
}

func TestLoadParsesAllPages(t *testing.T) {
	ts, err := Load("../../web/templates")
	require.NoError(t, err)

	for _, name := range []string{"home.html", "case_status.html", "foia.html", "connection.html", "logs.html"} {
		assert.True(t, ts.Has(name), "missing page %s", name)
	}
	assert.False(t, ts.Has("base.html"), "base layout must not be a page")
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func TestExecuteRendersThroughBaseLayout(t *testing.T) {
	ts, err := Load("../../web/templates")
	require.NoError(t, err)

	data := pageData{Title: "Case Status"}
	data.Token.Environment = "sandbox"
	data.TestReceipts = []string{"EAC9999103402"}

	var buf bytes.Buffer
	require.NoError(t, ts.Execute(&buf, "case_status.html", data))

	out := buf.String()
	assert.Contains(t, out, "<title>Case Status · USCIS Console</title>")
	assert.Contains(t, out, "EAC9999103402")
}

func TestExecuteUnknownPage(t *testing.T) {
	ts, err := Load("../../web/templates")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = ts.Execute(&buf, "nope.html", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPrettyJSON(t *testing.T) {
	t.Run("indents valid JSON", func(t *testing.T) {
		got := PrettyJSON(`{"a":{"b":1}}`)
		assert.Contains(t, got, "\n")
		assert.Contains(t, got, `"b": 1`)
	})

	t.Run("passes invalid input through", func(t *testing.T) {
		assert.Equal(t, "not json", PrettyJSON("not json"))
	})
}
