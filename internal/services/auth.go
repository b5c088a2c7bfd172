// Credential management for the catalog API.
//
// The original deployment keeps a long-lived refresh token and exchanges it for
// short-lived access tokens, so the manager implements the refresh-token grant
// directly rather than running an interactive OAuth flow.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/curator/internal/shared"
	"golang.org/x/oauth2"
)

const defaultTokenURL = "https://accounts.spotify.com/api/token"

// expiryLeeway refreshes tokens slightly before their reported expiry so a
// token never goes stale mid-request.
const expiryLeeway = 30 * time.Second

// TokenManager caches a single access token for the catalog API and refreshes
// it transparently when expired or absent. Safe for concurrent use.
type TokenManager struct {
	clientID     string
	clientSecret string
	refreshToken string
	tokenURL     string
	httpClient   *http.Client

	mu    sync.Mutex
	token *oauth2.Token
	now   func() time.Time
}

// NewTokenManager creates a TokenManager from Spotify credentials config.
func NewTokenManager(cfg shared.SpotifyConfig, client *http.Client) (*TokenManager, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if cfg.RefreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}
	if client == nil {
		client = http.DefaultClient
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	return &TokenManager{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		refreshToken: cfg.RefreshToken,
		tokenURL:     tokenURL,
		httpClient:   client,
		now:          time.Now,
	}, nil
}

// Acquire returns a currently-valid access token, refreshing the cached token
// when it is absent or within the expiry leeway. Refresh failures surface as
// [shared.AuthError] and are fatal to the calling run.
func (m *TokenManager) Acquire(ctx context.Context) (*oauth2.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != nil && m.token.Expiry.After(m.now().Add(expiryLeeway)) {
		return m.token, nil
	}

	token, err := m.refresh(ctx)
	if err != nil {
		return nil, err
	}

	m.token = token
	return token, nil
}

// refresh exchanges the refresh token for a new access token. Callers must hold m.mu.
func (m *TokenManager) refresh(ctx context.Context) (*oauth2.Token, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {m.refreshToken},
		"client_id":     {m.clientID},
		"client_secret": {m.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read token response: %v", shared.ErrRefreshFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &shared.AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode token response: %v", shared.ErrRefreshFailed, err)
	}
	if payload.AccessToken == "" {
		return nil, &shared.AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	return &oauth2.Token{
		AccessToken: payload.AccessToken,
		TokenType:   payload.TokenType,
		Expiry:      m.now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}, nil
}
