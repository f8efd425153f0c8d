// Package zoom talks to the Zoom identity and meeting APIs: server-to-server
// OAuth token acquisition with expiry-aware caching, meeting creation, and
// host-elevation (ZAK) token issuance.
package zoom

import (
	"net/http"
	"time"
)

const (
	DefaultTokenURL   = "https://zoom.us/oauth/token"
	DefaultAPIBaseURL = "https://api.zoom.us/v2"

	defaultHTTPTimeout = 30 * time.Second
)

// Config carries the credentials and endpoints for one Zoom account.
// OAuth fields take precedence over the legacy API key pair when both are
// present.
type Config struct {
	AccountID    string
	ClientID     string
	ClientSecret string

	// legacy JWT-app key pair, used to self-mint a short-lived bearer token
	// when no OAuth triad is configured
	APIKey    string
	APISecret string

	// TokenURL and APIBaseURL default to the public Zoom endpoints.
	TokenURL   string
	APIBaseURL string

	// HTTPClient defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

func (c Config) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return DefaultTokenURL
}

func (c Config) apiBaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return DefaultAPIBaseURL
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}
