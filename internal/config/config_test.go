package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrishChai1/uscis-console/internal/uscis"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("USCIS_CLIENT_ID", "id-from-env")
	t.Setenv("USCIS_CLIENT_SECRET", "secret-from-env")
	t.Setenv("USCIS_ENVIRONMENT", "")
	t.Setenv("CLAUDE_API_KEY", "")
}

func TestLoadDefaultsToSandbox(t *testing.T) {
	setRequiredEnv(t)

	creds, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "id-from-env", creds.ClientID)
	assert.Equal(t, "secret-from-env", creds.ClientSecret)
	assert.Equal(t, uscis.Sandbox, creds.Environment)
	assert.False(t, creds.HasClaudeKey())
}

func TestLoadRequiresClientID(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USCIS_CLIENT_ID", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USCIS_CLIENT_ID")
}

func TestLoadRequiresClientSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USCIS_CLIENT_SECRET", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USCIS_CLIENT_SECRET")
}

func TestLoadRejectsUnknownEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USCIS_ENVIRONMENT", "staging")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USCIS_ENVIRONMENT")
}

func TestLoadNormalizesEnvironmentCase(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("USCIS_ENVIRONMENT", "PRODUCTION")

	creds, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uscis.Production, creds.Environment)
}

func TestLoadReadsEnvFile(t *testing.T) {
	setRequiredEnv(t)
	// godotenv never overrides variables that are already present, so the
	// ones the file should provide must be absent, not merely empty.
	os.Unsetenv("USCIS_CLIENT_ID")
	os.Unsetenv("USCIS_CLIENT_SECRET")
	os.Unsetenv("CLAUDE_API_KEY")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"USCIS_CLIENT_ID=id-from-file\nUSCIS_CLIENT_SECRET=secret-from-file\nCLAUDE_API_KEY=sk-ant-test\n",
	), 0o600))

	creds, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "id-from-file", creds.ClientID)
	assert.Equal(t, "secret-from-file", creds.ClientSecret)
	assert.True(t, creds.HasClaudeKey())
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	setRequiredEnv(t)

	creds, err := Load(filepath.Join(t.TempDir(), "no-such-file"))
	require.NoError(t, err)
	assert.Equal(t, "id-from-env", creds.ClientID)
}
