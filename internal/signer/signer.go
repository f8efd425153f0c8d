package signer

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/udfnd/zoomclass/internal/core"
)

const (
	RoleAttendee = 0
	RoleHost     = 1

	// both SDK product lines expect two-hour session tokens
	sessionTTL = 2 * time.Hour
)

// Signer mints the HMAC-signed session tokens consumed by the meeting SDK
// and the video SDK. Both token shapes share the signing mechanics but not
// the payload schema.
type Signer struct {
	sdkKey    string
	sdkSecret string
}

func New(sdkKey, sdkSecret string) *Signer {
	return &Signer{sdkKey: sdkKey, sdkSecret: sdkSecret}
}

// NormalizeRole maps an arbitrary caller-provided role value onto the
// provider's binary role semantics: the number or string "1" is host,
// everything else is attendee. Malformed input is deliberately not rejected.
func NormalizeRole(v any) int {
	switch role := v.(type) {
	case int:
		if role == RoleHost {
			return RoleHost
		}
	case float64:
		if role == float64(RoleHost) {
			return RoleHost
		}
	case json.Number:
		if role.String() == "1" {
			return RoleHost
		}
	case string:
		if strings.TrimSpace(role) == "1" {
			return RoleHost
		}
	}
	return RoleAttendee
}

// NormalizeMeetingNumber renders a caller-provided meeting number as a
// string. Clients send it as a string or as a bare JSON number; anything
// else normalizes to empty and fails the required-field check downstream.
func NormalizeMeetingNumber(v any) string {
	switch n := v.(type) {
	case string:
		return strings.TrimSpace(n)
	case json.Number:
		return n.String()
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	}
	return ""
}

// SignMeetingSession builds a meeting SDK signature for the given meeting
// number and role. The tokenExp claim duplicates exp because one SDK variant
// requires it.
func (s *Signer) SignMeetingSession(meetingNumber string, role int) (string, error) {
	if s.sdkKey == "" || s.sdkSecret == "" {
		return "", core.Configurationf("meeting SDK credentials are not configured (set %s)", "ZOOM_MEETING_SDK_KEY/ZOOM_MEETING_SDK_SECRET")
	}

	meetingNumber = strings.TrimSpace(meetingNumber)
	if meetingNumber == "" {
		return "", core.Validationf("meetingNumber is required")
	}
	if _, err := strconv.ParseInt(meetingNumber, 10, 64); err != nil {
		return "", core.Validationf("meetingNumber %q is not numeric", meetingNumber)
	}

	if role != RoleHost {
		role = RoleAttendee
	}

	now := time.Now()
	exp := now.Add(sessionTTL)

	claims := jwt.MapClaims{
		"sdkKey":   s.sdkKey,
		"appKey":   s.sdkKey,
		"mn":       meetingNumber,
		"role":     role,
		"iat":      now.Unix(),
		"exp":      exp.Unix(),
		"tokenExp": exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.sdkSecret))
	if err != nil {
		return "", core.Configurationf("signing meeting session token: %s", err.Error())
	}
	return signed, nil
}

// SignVideoSession builds a video SDK session token for the given topic and
// user identity. The session key mirrors the topic; role_type is fixed to
// host because the calling surface only provisions session owners.
func (s *Signer) SignVideoSession(topic, userIdentity string) (string, error) {
	if s.sdkKey == "" || s.sdkSecret == "" {
		return "", core.Configurationf("meeting SDK credentials are not configured (set %s)", "ZOOM_MEETING_SDK_KEY/ZOOM_MEETING_SDK_SECRET")
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", core.Validationf("sessionName is required")
	}
	userIdentity = strings.TrimSpace(userIdentity)
	if userIdentity == "" {
		return "", core.Validationf("userId is required")
	}

	now := time.Now()
	exp := now.Add(sessionTTL)

	claims := jwt.MapClaims{
		"app_key":       s.sdkKey,
		"iat":           now.Unix(),
		"exp":           exp.Unix(),
		"tpc":           topic,
		"user_identity": userIdentity,
		"session_key":   topic,
		"role_type":     1,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.sdkSecret))
	if err != nil {
		return "", core.Configurationf("signing video session token: %s", err.Error())
	}
	return signed, nil
}
