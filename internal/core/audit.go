package core

import "time"

type AuditEntry struct {
	// ID is the unique request ID (X-Correlation-ID)
	ID string `json:"id"`

	// Time is the timestamp of the event
	Time time.Time `json:"time"`

	// Action describing what happened (e.g. "signature.issue", "meeting.create")
	Action string `json:"action"`

	// MeetingNumber the request targeted, if any
	MeetingNumber string `json:"meeting_number,omitempty"`

	// Topic of the meeting, if any
	Topic string `json:"topic,omitempty"`

	// HostName of the meeting, if any
	HostName string `json:"host_name,omitempty"`

	// Role the token was signed for (0 attendee, 1 host)
	Role int `json:"role"`

	// Decision details
	Granted bool     `json:"granted"`
	Error   string   `json:"error,omitempty"`
	Warning []string `json:"warnings,omitempty"`

	// TokenFingerprint identifies the issued token without revealing it
	TokenFingerprint string `json:"token_fingerprint,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	Close() error
}

// AuditReader is implemented by audit sinks that can be queried back.
type AuditReader interface {
	GetRecent(limit int) ([]AuditEntry, error)
	Find(filter func(entry AuditEntry) bool, limit int) ([]AuditEntry, error)
}

type Fingerprinter func(token string) string
