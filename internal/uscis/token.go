package uscis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// expirySkew treats a token as expired this long before its hard expiry so
// a request never leaves with a token that dies in flight.
const expirySkew = 60 * time.Second

// defaultExpiresIn is used when the token response omits expires_in. The
// Torch token endpoint issues 1799-second tokens.
const defaultExpiresIn = 1799

// Token is an OAuth2 access token plus its computed expiry. Replaced
// wholesale on refresh, never mutated.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	APIProducts []string
}

// Stale reports whether the token should be refreshed before use.
func (t *Token) Stale(now time.Time) bool {
	return !now.Before(t.ExpiresAt.Add(-expirySkew))
}

// Expired reports whether the token is past its hard expiry and can no
// longer be presented upstream.
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// TokenStatus describes the cached token for display in the console.
type TokenStatus struct {
	Authenticated    bool     `json:"authenticated"`
	TokenType        string   `json:"token_type,omitempty"`
	ExpiresAt        string   `json:"expires_at,omitempty"`
	SecondsRemaining int64    `json:"seconds_remaining"`
	APIProducts      []string `json:"api_products,omitempty"`
	Environment      string   `json:"environment"`
}

// TokenManager owns the single process-wide cached token. It performs the
// client-credentials grant lazily and is safe for concurrent use: the
// console's HTTP server runs handlers on independent goroutines.
type TokenManager struct {
	clientID     string
	clientSecret string
	env          Environment
	tokenURL     string
	httpClient   HTTPClient
	logger       zerolog.Logger
	now          func() time.Time

	mu    sync.Mutex
	token *Token
}

// NewTokenManager creates a token manager for the given credentials.
func NewTokenManager(cfg Config, logger zerolog.Logger) *TokenManager {
	tokenURL := cfg.Environment.TokenURL()
	if cfg.BaseURL != "" {
		tokenURL = cfg.BaseURL + "/oauth/token"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient()
	}
	return &TokenManager{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		env:          cfg.Environment,
		tokenURL:     tokenURL,
		httpClient:   httpClient,
		logger:       logger.With().Str("component", "token_manager").Logger(),
		now:          time.Now,
	}
}

// Token returns a valid token, authenticating first if the cache is empty
// or stale. A failed refresh never discards a cached token that is still
// inside its hard expiry: the stale-but-valid token is returned instead and
// the error is deferred until the token actually dies.
func (m *TokenManager) Token(ctx context.Context) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.token != nil && !m.token.Stale(now) {
		return m.token, nil
	}

	tok, err := m.authenticate(ctx)
	if err != nil {
		if m.token != nil && !m.token.Expired(now) {
			m.logger.Warn().
				Err(err).
				Time("hard_expiry", m.token.ExpiresAt).
				Msg("Token refresh failed, reusing cached token until hard expiry")
			return m.token, nil
		}
		return nil, err
	}

	m.token = tok
	return tok, nil
}

// Invalidate drops the cached token so the next call re-authenticates.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
}

// Status reports the cached token for the console dashboard.
func (m *TokenManager) Status() TokenStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := TokenStatus{Environment: string(m.env)}
	if m.token == nil {
		return status
	}

	now := m.now()
	remaining := int64(m.token.ExpiresAt.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	// Same skew Token() refreshes at, so the console never reports
	// "authenticated" for a token the next call will replace.
	status.Authenticated = !m.token.Stale(now)
	status.TokenType = m.token.TokenType
	status.ExpiresAt = m.token.ExpiresAt.Format(time.RFC3339)
	status.SecondsRemaining = remaining
	status.APIProducts = m.token.APIProducts
	return status
}

type tokenResponse struct {
	AccessToken    string          `json:"access_token"`
	TokenType      string          `json:"token_type"`
	ExpiresIn      json.Number     `json:"expires_in"`
	APIProductList json.RawMessage `json:"api_product_list_json"`
}

// apiProducts handles both shapes the token endpoint has been seen to emit:
// a JSON array of product names or a single string.
func (r *tokenResponse) apiProducts() []string {
	if len(r.APIProductList) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(r.APIProductList, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(r.APIProductList, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

// authenticate performs the client-credentials grant. Callers hold m.mu.
func (m *TokenManager) authenticate(ctx context.Context) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.clientID)
	form.Set("client_secret", m.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &AuthenticationError{Err: fmt.Errorf("failed to build token request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	m.logger.Info().
		Str("environment", string(m.env)).
		Str("endpoint", m.tokenURL).
		Msg("Requesting access token")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &AuthenticationError{Err: fmt.Errorf("token request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AuthenticationError{Status: resp.StatusCode, Err: fmt.Errorf("failed to read token response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AuthenticationError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &AuthenticationError{Status: resp.StatusCode, Body: string(body), Err: fmt.Errorf("failed to parse token response: %w", err)}
	}
	if tr.AccessToken == "" {
		return nil, &AuthenticationError{Status: resp.StatusCode, Body: string(body), Err: errors.New("token response missing access_token")}
	}

	expiresIn, err := tr.ExpiresIn.Int64()
	if err != nil || expiresIn <= 0 {
		expiresIn = defaultExpiresIn
	}
	tokenType := tr.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	tok := &Token{
		AccessToken: tr.AccessToken,
		TokenType:   tokenType,
		ExpiresAt:   m.now().Add(time.Duration(expiresIn) * time.Second),
		APIProducts: tr.apiProducts(),
	}

	m.logger.Info().
		Int64("expires_in", expiresIn).
		Strs("api_products", tok.APIProducts).
		Msg("Access token acquired")

	return tok, nil
}
