package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/udfnd/zoomclass/internal/core"
)

// legacy self-minted tokens are short-lived on purpose; they are created per
// call without a network round trip
const legacyTokenTTL = 5 * time.Minute

// Authenticator acquires bearer credentials for the meeting API. OAuth
// tokens are cached as an atomically swapped snapshot, so concurrent callers
// during a cache miss may each trigger a refresh, but a reader never
// observes a half-written cache entry.
type Authenticator struct {
	cfg        Config
	httpClient *http.Client

	cache atomic.Pointer[cachedToken]
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{
		cfg:        cfg,
		httpClient: cfg.httpClient(),
	}
}

func (a *Authenticator) HasOAuth() bool {
	return a.cfg.AccountID != "" && a.cfg.ClientID != "" && a.cfg.ClientSecret != ""
}

func (a *Authenticator) HasLegacy() bool {
	return a.cfg.APIKey != "" && a.cfg.APISecret != ""
}

// Invalidate drops the cached OAuth token. Used after a dependent call was
// rejected with 401.
func (a *Authenticator) Invalidate() {
	a.cache.Store(nil)
}

// AccessToken returns a valid OAuth bearer token, reusing the cached one
// while it is fresh. forceRefresh skips the cache entirely.
func (a *Authenticator) AccessToken(ctx context.Context, forceRefresh bool) (string, error) {
	if !a.HasOAuth() {
		return "", core.Configurationf("Zoom OAuth credentials are not configured (set ZOOM_ACCOUNT_ID, ZOOM_CLIENT_ID, ZOOM_CLIENT_SECRET)")
	}

	if !forceRefresh {
		if snapshot := a.cache.Load(); snapshot != nil && time.Now().Before(snapshot.expiresAt) {
			return snapshot.token, nil
		}
	}

	form := url.Values{
		"grant_type": {"account_credentials"},
		"account_id": {a.cfg.AccountID},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.tokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.SetBasicAuth(a.cfg.ClientID, a.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.cache.Store(nil)
		return "", &core.AuthError{Msg: "requesting access token: " + err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.cache.Store(nil)
		return "", &core.AuthError{Msg: "reading token response: " + err.Error(), Status: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.cache.Store(nil)
		msg := "access token request rejected"
		if strings.Contains(string(body), "unsupported_grant_type") {
			msg += " (the account_credentials grant requires a Server-to-Server OAuth app; check the app type in the Zoom marketplace)"
		}
		return "", &core.AuthError{Msg: msg, Status: resp.StatusCode, Body: string(body)}
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"` // seconds
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		a.cache.Store(nil)
		return "", &core.AuthError{Msg: "decoding token response: " + err.Error(), Status: resp.StatusCode}
	}
	if parsed.AccessToken == "" {
		a.cache.Store(nil)
		return "", &core.AuthError{Msg: "token response carried no access_token", Status: resp.StatusCode, Body: string(body)}
	}

	lifetime := time.Duration(parsed.ExpiresIn) * time.Second
	margin := time.Minute
	if tenth := lifetime / 10; tenth < margin {
		margin = tenth
	}
	usable := lifetime - margin
	if usable < 0 {
		usable = 0
	}

	entry := &cachedToken{
		token:     parsed.AccessToken,
		expiresAt: time.Now().Add(usable),
	}
	a.cache.Store(entry)

	log.Ctx(ctx).Debug().
		Time("expires_at", entry.expiresAt).
		Msg("cached new access token")

	return entry.token, nil
}

// BearerToken resolves the bearer credential for an API call, preferring
// OAuth and falling back to a locally minted legacy JWT.
func (a *Authenticator) BearerToken(ctx context.Context) (string, error) {
	if a.HasOAuth() {
		return a.AccessToken(ctx, false)
	}
	if a.HasLegacy() {
		return a.mintLegacyToken()
	}
	return "", core.Configurationf("no Zoom API credentials configured (set the OAuth triad or ZOOM_API_KEY/ZOOM_API_SECRET)")
}

func (a *Authenticator) mintLegacyToken() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": a.cfg.APIKey,
		"iat": now.Unix(),
		"exp": now.Add(legacyTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.cfg.APISecret))
	if err != nil {
		return "", &core.AuthError{Msg: "minting legacy api token: " + err.Error()}
	}
	return signed, nil
}
