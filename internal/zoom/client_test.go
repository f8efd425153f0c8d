package zoom

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/udfnd/zoomclass/internal/core"
)

// fakeZoom serves the OAuth token endpoint and the two meeting API endpoints
// from one httptest server, with per-endpoint call counters.
type fakeZoom struct {
	server *httptest.Server

	tokenCalls  atomic.Int64
	createCalls atomic.Int64
	zakCalls    atomic.Int64
	lastCreate  atomic.Pointer[map[string]any]

	zakHandler    func(call int64, w http.ResponseWriter)
	createPayload map[string]any
}

func newFakeZoom(t *testing.T) *fakeZoom {
	t.Helper()
	f := &fakeZoom{
		createPayload: map[string]any{
			"id":        123456789,
			"topic":     "Algebra II",
			"password":  "pw123",
			"join_url":  "https://zoom.us/j/123456789?pwd=pw123",
			"start_url": "https://zoom.us/s/123456789?zak=zak-from-url",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	})
	mux.HandleFunc("POST /v2/users/me/meetings", func(w http.ResponseWriter, r *http.Request) {
		f.createCalls.Add(1)
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding create payload: %v", err)
		}
		f.lastCreate.Store(&body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(f.createPayload)
	})
	mux.HandleFunc("GET /v2/users/me/token", func(w http.ResponseWriter, r *http.Request) {
		call := f.zakCalls.Add(1)
		if f.zakHandler != nil {
			f.zakHandler(call, w)
			return
		}
		_, _ = w.Write([]byte(`{"token":"zak-from-endpoint"}`))
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeZoom) client() *Client {
	cfg := Config{
		AccountID:    "acct-1",
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		TokenURL:     f.server.URL + "/oauth/token",
		APIBaseURL:   f.server.URL + "/v2",
	}
	return NewClient(NewAuthenticator(cfg), cfg)
}

func TestCreateMeeting(t *testing.T) {
	fake := newFakeZoom(t)
	client := fake.client()

	result, err := client.CreateMeeting(context.Background(), "Algebra II", "Ms. Lee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantMeeting := &Meeting{
		ID:       "123456789",
		Topic:    "Algebra II",
		Passcode: "pw123",
		JoinURL:  "https://zoom.us/j/123456789?pwd=pw123",
		StartURL: "https://zoom.us/s/123456789?zak=zak-from-url",
	}
	if diff := cmp.Diff(wantMeeting, result.Meeting); diff != "" {
		t.Errorf("meeting mismatch (-want +got):\n%s", diff)
	}
	if result.HostToken != "zak-from-endpoint" {
		t.Errorf("host token = %q, want zak-from-endpoint", result.HostToken)
	}
	if result.HostTokenSource != ZAKSourceEndpoint {
		t.Errorf("host token source = %q, want %q", result.HostTokenSource, ZAKSourceEndpoint)
	}

	sent := *fake.lastCreate.Load()
	if sent["topic"] != "Algebra II" {
		t.Errorf("sent topic = %v", sent["topic"])
	}
	if sent["type"] != float64(1) {
		t.Errorf("sent type = %v, want 1 (instant)", sent["type"])
	}
	if sent["agenda"] != "Host: Ms. Lee" {
		t.Errorf("sent agenda = %v", sent["agenda"])
	}
	settings := sent["settings"].(map[string]any)
	if settings["waiting_room"] != false || settings["join_before_host"] != false {
		t.Errorf("sent settings = %v", settings)
	}
}

func TestCreateMeeting_ZAKRetryAfter401(t *testing.T) {
	fake := newFakeZoom(t)
	fake.zakHandler = func(call int64, w http.ResponseWriter) {
		if call == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":124,"message":"Invalid access token."}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"zak-after-refresh"}`))
	}
	client := fake.client()

	result, err := client.CreateMeeting(context.Background(), "Chemistry", "Mr. Park")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HostToken != "zak-after-refresh" {
		t.Errorf("host token = %q, want zak-after-refresh", result.HostToken)
	}
	if result.HostTokenSource != ZAKSourceEndpoint {
		t.Errorf("host token source = %q, want %q", result.HostTokenSource, ZAKSourceEndpoint)
	}

	if got := fake.zakCalls.Load(); got != 2 {
		t.Errorf("zak endpoint called %d times, want 2", got)
	}
	// initial token fetch plus exactly one forced refresh
	if got := fake.tokenCalls.Load(); got != 2 {
		t.Errorf("token endpoint called %d times, want 2", got)
	}
}

func TestCreateMeeting_ZAKStartURLFallback(t *testing.T) {
	fake := newFakeZoom(t)
	fake.zakHandler = func(_ int64, w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	client := fake.client()

	result, err := client.CreateMeeting(context.Background(), "History", "Dr. Kim")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HostToken != "zak-from-url" {
		t.Errorf("host token = %q, want zak-from-url", result.HostToken)
	}
	if result.HostTokenSource != ZAKSourceStartURL {
		t.Errorf("host token source = %q, want %q", result.HostTokenSource, ZAKSourceStartURL)
	}
}

func TestCreateMeeting_AllZAKSourcesFail(t *testing.T) {
	fake := newFakeZoom(t)
	fake.createPayload = map[string]any{
		"id":       987,
		"topic":    "Music",
		"join_url": "https://zoom.us/j/987",
		// no start_url, so the fallback has nothing to scan
	}
	fake.zakHandler = func(_ int64, w http.ResponseWriter) {
		w.WriteHeader(http.StatusForbidden)
	}
	client := fake.client()

	result, err := client.CreateMeeting(context.Background(), "Music", "Ms. Cho")
	if err != nil {
		t.Fatalf("meeting creation must survive zak failure, got %v", err)
	}
	if result.HostToken != "" || result.HostTokenSource != "" {
		t.Errorf("expected empty host token, got %q from %q", result.HostToken, result.HostTokenSource)
	}
}

func TestCreateMeeting_Rejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	})
	mux.HandleFunc("POST /v2/users/me/meetings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":300,"message":"Invalid meeting topic."}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := Config{
		AccountID:    "acct-1",
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		TokenURL:     server.URL + "/oauth/token",
		APIBaseURL:   server.URL + "/v2",
	}
	client := NewClient(NewAuthenticator(cfg), cfg)

	_, err := client.CreateMeeting(context.Background(), "", "")
	var provErr *core.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", provErr.Status)
	}
}

func TestExtractZAKFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		want     string
		wantBool bool
	}{
		{
			name:     "Query Parameter",
			url:      "https://zoom.us/s/123?zak=abc123",
			want:     "abc123",
			wantBool: true,
		},
		{
			name:     "Percent Encoded",
			url:      "https://zoom.us/s/123?zak=ab%2Fc%3D%3D",
			want:     "ab/c==",
			wantBool: true,
		},
		{
			name:     "Not First Parameter",
			url:      "https://zoom.us/s/123?pwd=x&zak=tail",
			want:     "tail",
			wantBool: true,
		},
		{
			name:     "Malformed URL Regex Fallback",
			url:      "https://zoom .us/s/123?zak=fromregex&x=1",
			want:     "fromregex",
			wantBool: true,
		},
		{
			name: "No ZAK",
			url:  "https://zoom.us/s/123?pwd=x",
		},
		{
			name: "Empty",
			url:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractZAKFromURL(tt.url)
			if ok != tt.wantBool {
				t.Fatalf("ok = %v, want %v", ok, tt.wantBool)
			}
			if got != tt.want {
				t.Errorf("zak = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeMeeting(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		want    *Meeting
		wantErr bool
	}{
		{
			name: "Numeric ID Coerced",
			raw:  map[string]any{"id": 42, "topic": "T"},
			want: &Meeting{ID: "42", Topic: "T"},
		},
		{
			name: "Meeting ID Fallback",
			raw:  map[string]any{"meeting_id": "77"},
			want: &Meeting{ID: "77"},
		},
		{
			name: "Camel Case Fallback",
			raw:  map[string]any{"meetingNumber": "88"},
			want: &Meeting{ID: "88"},
		},
		{
			name: "Password Wins Over Passcode",
			raw:  map[string]any{"id": 1, "password": "a", "passcode": "b"},
			want: &Meeting{ID: "1", Passcode: "a"},
		},
		{
			name:    "No Identifier",
			raw:     map[string]any{"topic": "orphan"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeMeeting(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("meeting mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
