package signer

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/udfnd/zoomclass/internal/core"
)

const (
	testKey    = "test-sdk-key"
	testSecret = "test-sdk-secret"
)

func decodeSegment(t *testing.T, segment string) map[string]any {
	t.Helper()
	data, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		t.Fatalf("segment is not valid unpadded base64url: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("segment is not valid JSON: %v", err)
	}
	return decoded
}

func TestSignMeetingSession(t *testing.T) {
	s := New(testKey, testSecret)

	token, err := s.SignMeetingSession("123456789", RoleHost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	for i, segment := range segments {
		if strings.ContainsAny(segment, "+/=") {
			t.Errorf("segment %d contains non-base64url characters: %q", i, segment)
		}
	}

	header := decodeSegment(t, segments[0])
	if header["alg"] != "HS256" || header["typ"] != "JWT" {
		t.Errorf("unexpected header: %v", header)
	}

	payload := decodeSegment(t, segments[1])
	if payload["sdkKey"] != testKey {
		t.Errorf("sdkKey = %v, want %v", payload["sdkKey"], testKey)
	}
	if payload["appKey"] != testKey {
		t.Errorf("appKey = %v, want %v", payload["appKey"], testKey)
	}
	if payload["mn"] != "123456789" {
		t.Errorf("mn = %v, want 123456789", payload["mn"])
	}
	if payload["role"] != float64(RoleHost) {
		t.Errorf("role = %v, want %d", payload["role"], RoleHost)
	}

	iat := payload["iat"].(float64)
	exp := payload["exp"].(float64)
	if exp-iat != 7200 {
		t.Errorf("exp - iat = %v, want 7200", exp-iat)
	}
	if payload["tokenExp"] != exp {
		t.Errorf("tokenExp = %v, want %v", payload["tokenExp"], exp)
	}

	// verify the signature under the configured secret
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("token reported invalid")
	}
}

func TestSignMeetingSession_Reverify(t *testing.T) {
	// signatures are timestamp-dependent, so regenerate and re-verify
	// instead of asserting byte equality
	s := New(testKey, testSecret)
	for i := 0; i < 3; i++ {
		token, err := s.SignMeetingSession("987654321", RoleAttendee)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
			return []byte(testSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"})); err != nil {
			t.Fatalf("regenerated token does not verify: %v", err)
		}
	}
}

func TestSignMeetingSession_Errors(t *testing.T) {
	tests := []struct {
		name          string
		signer        *Signer
		meetingNumber string
		wantConfig    bool
		wantValid     bool
	}{
		{
			name:          "Missing Credentials",
			signer:        New("", ""),
			meetingNumber: "123",
			wantConfig:    true,
		},
		{
			name:          "Empty Meeting Number",
			signer:        New(testKey, testSecret),
			meetingNumber: "   ",
			wantValid:     true,
		},
		{
			name:          "Non Numeric Meeting Number",
			signer:        New(testKey, testSecret),
			meetingNumber: "abc123",
			wantValid:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.signer.SignMeetingSession(tt.meetingNumber, RoleAttendee)
			if err == nil {
				t.Fatal("expected an error")
			}
			var configErr *core.ConfigurationError
			var validErr *core.ValidationError
			if tt.wantConfig && !errors.As(err, &configErr) {
				t.Errorf("expected ConfigurationError, got %v", err)
			}
			if tt.wantValid && !errors.As(err, &validErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestSignVideoSession(t *testing.T) {
	s := New(testKey, testSecret)

	token, err := s.SignVideoSession("algebra-2", "ms-lee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}

	payload := decodeSegment(t, segments[1])
	if payload["app_key"] != testKey {
		t.Errorf("app_key = %v, want %v", payload["app_key"], testKey)
	}
	if payload["tpc"] != "algebra-2" {
		t.Errorf("tpc = %v, want algebra-2", payload["tpc"])
	}
	if payload["session_key"] != "algebra-2" {
		t.Errorf("session_key = %v, want algebra-2", payload["session_key"])
	}
	if payload["user_identity"] != "ms-lee" {
		t.Errorf("user_identity = %v, want ms-lee", payload["user_identity"])
	}
	if payload["role_type"] != float64(1) {
		t.Errorf("role_type = %v, want 1", payload["role_type"])
	}

	iat := payload["iat"].(float64)
	exp := payload["exp"].(float64)
	if exp-iat != 7200 {
		t.Errorf("exp - iat = %v, want 7200", exp-iat)
	}
}

func TestNormalizeMeetingNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"String", "123456789", "123456789"},
		{"Padded String", "  123456789 ", "123456789"},
		{"JSON Number From Decode", float64(123456789), "123456789"},
		{"Large JSON Number", float64(98765432101), "98765432101"},
		{"JSON Number Type", json.Number("123456789"), "123456789"},
		{"Int", 42, "42"},
		{"Int64", int64(42), "42"},
		{"Nil", nil, ""},
		{"Bool", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMeetingNumber(tt.in); got != tt.want {
				t.Errorf("NormalizeMeetingNumber(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"Int Host", 1, RoleHost},
		{"Int Attendee", 0, RoleAttendee},
		{"Int Other", 2, RoleAttendee},
		{"Float Host", float64(1), RoleHost},
		{"Float Other", float64(1.5), RoleAttendee},
		{"String Host", "1", RoleHost},
		{"String Padded Host", " 1 ", RoleHost},
		{"String Attendee", "0", RoleAttendee},
		{"String Garbage", "host", RoleAttendee},
		{"JSON Number Host", json.Number("1"), RoleHost},
		{"Nil", nil, RoleAttendee},
		{"Bool", true, RoleAttendee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRole(tt.in); got != tt.want {
				t.Errorf("NormalizeRole(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
