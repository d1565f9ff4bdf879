package uscis

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentBaseURL(t *testing.T) {
	assert.Equal(t, "https://api-int.uscis.gov", Sandbox.BaseURL())
	assert.Equal(t, "https://api.uscis.gov", Production.BaseURL())

	// Anything unrecognized falls back to the sandbox host.
	assert.Equal(t, "https://api-int.uscis.gov", Environment("staging").BaseURL())
	assert.Equal(t, "https://api-int.uscis.gov", Environment("").BaseURL())
}

func TestEnvironmentTokenURL(t *testing.T) {
	assert.Equal(t, "https://api-int.uscis.gov/oauth/token", Sandbox.TokenURL())
	assert.Equal(t, "https://api.uscis.gov/oauth/token", Production.TokenURL())
}

func TestOperationMethod(t *testing.T) {
	assert.Equal(t, http.MethodGet, OpCaseStatus.Method())
	assert.Equal(t, http.MethodGet, OpFoiaStatus.Method())
	assert.Equal(t, http.MethodPost, OpFoiaRequestCreate.Method())
}

func TestExpandPath(t *testing.T) {
	t.Run("substitutes receipt number", func(t *testing.T) {
		path, err := OpCaseStatus.expandPath(map[string]string{"receipt": "EAC9999103402"})
		require.NoError(t, err)
		assert.Equal(t, "/case-status/EAC9999103402", path)
	})

	t.Run("escapes path values", func(t *testing.T) {
		path, err := OpFoiaStatus.expandPath(map[string]string{"number": "NRC 2024/01"})
		require.NoError(t, err)
		assert.Equal(t, "/foia/status/NRC%202024%2F01", path)
	})

	t.Run("no params needed", func(t *testing.T) {
		path, err := OpFoiaRequestCreate.expandPath(nil)
		require.NoError(t, err)
		assert.Equal(t, "/foia/request", path)
	})

	t.Run("missing placeholder value", func(t *testing.T) {
		_, err := OpCaseStatus.expandPath(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "{receipt}")
	})

	t.Run("empty value rejected", func(t *testing.T) {
		_, err := OpCaseStatus.expandPath(map[string]string{"receipt": ""})
		require.Error(t, err)
	})

	t.Run("unknown param rejected", func(t *testing.T) {
		_, err := OpCaseStatus.expandPath(map[string]string{"number": "x"})
		require.Error(t, err)
	})

	t.Run("unknown operation", func(t *testing.T) {
		_, err := Operation("bogus").expandPath(nil)
		require.Error(t, err)
	})
}
