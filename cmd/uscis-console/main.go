package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/KrishChai1/uscis-console/internal/app"
	"github.com/KrishChai1/uscis-console/internal/config"
	"github.com/KrishChai1/uscis-console/internal/logger"
	"github.com/KrishChai1/uscis-console/internal/render"
	"github.com/KrishChai1/uscis-console/internal/uscis"
)

func main() {
	envFile := flag.String("env-file", ".env", "Path to .env file with USCIS credentials")
	templatesDir := flag.String("templates", "web/templates", "Path to HTML templates")
	flag.Parse()

	log := logger.New()

	creds, err := config.Load(*envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Credentials missing or invalid, refusing to start")
	}

	templates, err := render.Load(*templatesDir)
	if err != nil {
		log.Fatal().Err(err).Str("path", *templatesDir).Msg("Failed to load templates")
	}

	srv, err := app.NewServer(creds, templates, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build server")
	}

	log.Info().
		Str("environment", string(creds.Environment)).
		Bool("claude_enabled", creds.HasClaudeKey()).
		Msg("✅ Credentials loaded")

	validateTokenAtStartup(srv.Tokens(), log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8600"
	}

	log.Info().Str("port", port).Msg("Starting USCIS console")
	log.Fatal().Err(http.ListenAndServe(":"+port, srv)).Msg("Server failed to start")
}

// validateTokenAtStartup fetches a token once so misconfigured credentials
// surface in the logs immediately. A failure is not fatal: the sandbox has
// business hours and the console should still come up outside them.
func validateTokenAtStartup(tokens *uscis.TokenManager, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	token, err := tokens.Token(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️  Startup authentication failed, will retry on first request")
		return
	}
	log.Info().
		Time("expires_at", token.ExpiresAt).
		Strs("api_products", token.APIProducts).
		Msg("✅ Authenticated with USCIS")
}
