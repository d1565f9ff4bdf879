// Package app wires the console's components into a ready-to-serve handler.
package app

import (
	"github.com/rs/zerolog"

	"github.com/KrishChai1/uscis-console/internal/claude"
	"github.com/KrishChai1/uscis-console/internal/config"
	"github.com/KrishChai1/uscis-console/internal/render"
	"github.com/KrishChai1/uscis-console/internal/server"
	"github.com/KrishChai1/uscis-console/internal/uscis"
)

// NewServer builds the full console server from loaded credentials.
func NewServer(creds *config.Credentials, templates *render.TemplateSet, log zerolog.Logger) (*server.Server, error) {
	uscisClient, err := uscis.New(uscis.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Environment:  creds.Environment,
	}, log)
	if err != nil {
		return nil, err
	}

	summarizer := claude.New(creds.ClaudeAPIKey, log)

	return server.New(log, uscisClient, summarizer, templates), nil
}
