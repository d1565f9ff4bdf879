package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/KrishChai1/uscis-console/internal/uscis"
)

// Credentials holds the secrets the console needs. Loaded once at startup
// from the process environment and immutable for the process lifetime.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Environment  uscis.Environment
	ClaudeAPIKey string
}

// Load reads credentials from the environment. When envFile is non-empty
// it is loaded first; a missing file is not an error so the console runs
// unchanged in environments that inject secrets directly.
func Load(envFile string) (*Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	creds := &Credentials{
		ClientID:     os.Getenv("USCIS_CLIENT_ID"),
		ClientSecret: os.Getenv("USCIS_CLIENT_SECRET"),
		Environment:  uscis.Environment(strings.ToLower(os.Getenv("USCIS_ENVIRONMENT"))),
		ClaudeAPIKey: os.Getenv("CLAUDE_API_KEY"),
	}
	if creds.Environment == "" {
		creds.Environment = uscis.Sandbox
	}

	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return creds, nil
}

// Validate fails fast on missing or malformed required settings, before
// any API call is attempted.
func (c *Credentials) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("USCIS_CLIENT_ID is required (issued by the USCIS Developer Portal, https://developer.uscis.gov)")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("USCIS_CLIENT_SECRET is required")
	}
	if c.Environment != uscis.Sandbox && c.Environment != uscis.Production {
		return fmt.Errorf("USCIS_ENVIRONMENT must be %q or %q, got %q", uscis.Sandbox, uscis.Production, c.Environment)
	}
	return nil
}

// HasClaudeKey reports whether the optional summarization integration is
// configured.
func (c *Credentials) HasClaudeKey() bool {
	return c.ClaudeAPIKey != ""
}
