package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseStartTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "RFC3339",
			raw:  "2026-09-01T10:00:00Z",
			want: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "RFC3339 With Offset",
			raw:  "2026-09-01T19:00:00+09:00",
			want: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "No Zone",
			raw:  "2026-09-01T10:00:00",
			want: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "No Seconds",
			raw:  "2026-09-01T10:00",
			want: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "Space Separator",
			raw:  "2026-09-01 10:00:00",
			want: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "Bare Date",
			raw:  "2026-09-01",
			want: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Padded",
			raw:  "  2026-09-01  ",
			want: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "Empty",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "Garbage",
			raw:     "next tuesday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStartTime(tt.raw)
			if tt.wantErr {
				var validErr *ValidationError
				if !errors.As(err, &validErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parsed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewMeetingRecord(t *testing.T) {
	tests := []struct {
		name        string
		sessionName string
		hostName    string
		startTime   string
		wantErr     string
	}{
		{
			name:        "Valid",
			sessionName: "math-101",
			hostName:    "Ms. Lee",
			startTime:   "2026-09-01T10:00:00Z",
		},
		{
			name:      "Missing Session Name",
			hostName:  "Ms. Lee",
			startTime: "2026-09-01T10:00:00Z",
			wantErr:   "sessionName",
		},
		{
			name:        "Missing Host Name",
			sessionName: "math-101",
			startTime:   "2026-09-01T10:00:00Z",
			wantErr:     "hostName",
		},
		{
			name:        "Bad Start Time",
			sessionName: "math-101",
			hostName:    "Ms. Lee",
			startTime:   "later",
			wantErr:     "startTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewMeetingRecord(tt.sessionName, tt.hostName, tt.startTime)
			if tt.wantErr != "" {
				var validErr *ValidationError
				if !errors.As(err, &validErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if !strings.Contains(validErr.Msg, tt.wantErr) {
					t.Errorf("message %q does not name field %q", validErr.Msg, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.HasOptionalFields() {
				t.Error("fresh record claims optional fields")
			}
			rec.Passcode = "pw"
			if !rec.HasOptionalFields() {
				t.Error("record with passcode reports no optional fields")
			}
		})
	}
}
