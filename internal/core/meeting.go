package core

import (
	"strings"
	"time"
)

// startTimeLayouts are the accepted input layouts for meeting start times,
// most specific first. Bare dates resolve to midnight UTC.
var startTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// MeetingRecord is a meeting row as the persistence layer sees it.
// SessionName, HostName and StartTime are required; the remaining fields are
// written only when non-empty.
type MeetingRecord struct {
	SessionName     string
	HostName        string
	StartTime       time.Time
	RemoteMeetingID string
	JoinURL         string
	StartURL        string
	Passcode        string
}

// ParseStartTime parses a caller-provided start time into an absolute instant.
func ParseStartTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, Validationf("startTime is required")
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, Validationf("startTime %q is not a recognized date/time", raw)
}

// NewMeetingRecord validates the required fields and builds a record.
// Optional fields are assigned by the caller afterwards.
func NewMeetingRecord(sessionName, hostName, startTime string) (*MeetingRecord, error) {
	sessionName = strings.TrimSpace(sessionName)
	if sessionName == "" {
		return nil, Validationf("sessionName is required")
	}
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		return nil, Validationf("hostName is required")
	}
	start, err := ParseStartTime(startTime)
	if err != nil {
		return nil, err
	}
	return &MeetingRecord{
		SessionName: sessionName,
		HostName:    hostName,
		StartTime:   start,
	}, nil
}

// HasOptionalFields reports whether any of the optional columns would be
// written for this record.
func (r *MeetingRecord) HasOptionalFields() bool {
	return r.RemoteMeetingID != "" || r.JoinURL != "" || r.StartURL != "" || r.Passcode != ""
}
