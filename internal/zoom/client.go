package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/udfnd/zoomclass/internal/api/middleware"
	"github.com/udfnd/zoomclass/internal/audit"
	"github.com/udfnd/zoomclass/internal/core"
)

const (
	createMeetingEndpoint = "/users/me/meetings"
	userTokenEndpoint     = "/users/me/token?type=zak"

	// type 1 = instant meeting
	meetingTypeInstant = 1
)

// ZAK source tags, recorded for observability.
const (
	ZAKSourceEndpoint = "user_token_endpoint"
	ZAKSourceStartURL = "start_url"
)

var zakPattern = regexp.MustCompile(`zak=([^&\s"]+)`)

// Client creates meetings and resolves host-elevation (ZAK) tokens.
type Client struct {
	auth       *Authenticator
	httpClient *http.Client
	baseURL    string
}

func NewClient(auth *Authenticator, cfg Config) *Client {
	return &Client{
		auth:       auth,
		httpClient: cfg.httpClient(),
		baseURL:    cfg.apiBaseURL(),
	}
}

// CreateMeetingResult bundles the created meeting with the resolved host
// token. HostToken may be empty when both elevation paths failed; callers
// degrade to attendee-role signing in that case.
type CreateMeetingResult struct {
	Meeting         *Meeting
	HostToken       string
	HostTokenSource string
}

type createMeetingRequest struct {
	Topic    string          `json:"topic"`
	Type     int             `json:"type"`
	Agenda   string          `json:"agenda,omitempty"`
	Settings meetingSettings `json:"settings"`
}

type meetingSettings struct {
	WaitingRoom    bool `json:"waiting_room"`
	JoinBeforeHost bool `json:"join_before_host"`
}

// CreateMeeting creates an instant meeting and then tries to obtain a host
// token for it. Meeting creation failure is fatal; ZAK failure is not.
func (c *Client) CreateMeeting(ctx context.Context, topic, hostName string) (*CreateMeetingResult, error) {
	payload := createMeetingRequest{
		Topic:  topic,
		Type:   meetingTypeInstant,
		Agenda: "Host: " + hostName,
		Settings: meetingSettings{
			WaitingRoom:    false,
			JoinBeforeHost: false,
		},
	}

	status, body, err := c.doAuthed(ctx, http.MethodPost, createMeetingEndpoint, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		msg := "meeting creation rejected"
		if status == http.StatusUnauthorized {
			msg += " (check that the app has the meeting:write scope and that credentials were pasted without extra characters)"
		}
		return nil, &core.ProviderError{Msg: msg, Status: status, Body: string(body)}
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &core.ProviderError{Msg: "decoding meeting response: " + err.Error(), Status: status}
	}
	meeting, err := decodeMeeting(raw)
	if err != nil {
		return nil, &core.ProviderError{Msg: err.Error(), Status: status}
	}

	token, source := c.resolveHostToken(ctx, meeting)

	return &CreateMeetingResult{
		Meeting:         meeting,
		HostToken:       token,
		HostTokenSource: source,
	}, nil
}

// UserZAK fetches a host-elevation token for the configured user.
func (c *Client) UserZAK(ctx context.Context) (string, error) {
	status, body, err := c.doAuthed(ctx, http.MethodGet, userTokenEndpoint, nil)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", &core.ProviderError{Msg: "zak issuance rejected", Status: status, Body: string(body)}
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &core.ProviderError{Msg: "decoding zak response: " + err.Error(), Status: status}
	}
	if parsed.Token == "" {
		return "", &core.ProviderError{Msg: "zak response carried no token", Status: status}
	}
	return parsed.Token, nil
}

// resolveHostToken tries the user token endpoint first, then falls back to
// extracting the zak parameter from the meeting's start URL. Both failing is
// non-fatal: the caller signs an attendee-role session instead.
func (c *Client) resolveHostToken(ctx context.Context, meeting *Meeting) (string, string) {
	token, source, failures := core.RunChain(ctx, []core.Strategy[string]{
		{
			Name: ZAKSourceEndpoint,
			Run: func(ctx context.Context) (string, core.Outcome, error) {
				zak, err := c.UserZAK(ctx)
				if err != nil {
					return "", core.OutcomeRetryable, err
				}
				return zak, core.OutcomeSuccess, nil
			},
		},
		{
			Name: ZAKSourceStartURL,
			Run: func(_ context.Context) (string, core.Outcome, error) {
				zak, ok := extractZAKFromURL(meeting.StartURL)
				if !ok {
					return "", core.OutcomeRetryable, fmt.Errorf("start url carries no zak parameter")
				}
				return zak, core.OutcomeSuccess, nil
			},
		},
	})

	if source == "" {
		log.Ctx(ctx).Warn().
			Str("meeting_id", meeting.ID).
			Errs("causes", failures).
			Msg("no host token could be resolved, falling back to attendee role")
		return "", ""
	}

	log.Ctx(ctx).Debug().
		Str("meeting_id", meeting.ID).
		Str("source", source).
		Msg("resolved host token")
	return token, source
}

// extractZAKFromURL pulls the zak query parameter out of a start URL.
// Proper URL parsing is tried first; a regex scan covers malformed URLs the
// provider occasionally returns.
func extractZAKFromURL(startURL string) (string, bool) {
	if startURL == "" {
		return "", false
	}
	if parsed, err := url.Parse(startURL); err == nil {
		if zak := parsed.Query().Get("zak"); zak != "" {
			return zak, true
		}
	}
	match := zakPattern.FindStringSubmatch(startURL)
	if match == nil {
		return "", false
	}
	decoded, err := url.QueryUnescape(match[1])
	if err != nil {
		return match[1], true
	}
	return decoded, true
}

// doAuthed performs one authenticated API call. A 401 under OAuth triggers
// exactly one forced token refresh and retry; if the retry fails too, the
// original failure context is propagated.
func (c *Client) doAuthed(ctx context.Context, method, endpoint string, payload any) (int, []byte, error) {
	status, body, err := c.once(ctx, method, endpoint, payload, false)
	if err != nil {
		return 0, nil, err
	}

	if status == http.StatusUnauthorized && c.auth.HasOAuth() {
		log.Ctx(ctx).Warn().
			Str("endpoint", endpoint).
			Msg("call rejected with 401, forcing token refresh and retrying once")
		c.auth.Invalidate()

		retryStatus, retryBody, retryErr := c.once(ctx, method, endpoint, payload, true)
		if retryErr == nil && retryStatus != http.StatusUnauthorized {
			return retryStatus, retryBody, nil
		}
		return status, body, nil
	}

	return status, body, nil
}

func (c *Client) once(ctx context.Context, method, endpoint string, payload any, forceRefresh bool) (int, []byte, error) {
	var token string
	var err error
	if c.auth.HasOAuth() && forceRefresh {
		token, err = c.auth.AccessToken(ctx, true)
	} else {
		token, err = c.auth.BearerToken(ctx)
	}
	if err != nil {
		return 0, nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshalling payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", audit.CreateUserAgent(middleware.CorrelationCtx(ctx)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &core.ProviderError{Msg: "performing request: " + err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &core.ProviderError{Msg: "reading response: " + err.Error(), Status: resp.StatusCode}
	}
	return resp.StatusCode, body, nil
}
