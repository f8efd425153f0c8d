package service

import "github.com/udfnd/zoomclass/internal/storage"

// MeetingSignatureRequest carries the input of a signature issuance.
// Both fields are kept loose on purpose: clients send the meeting number as
// a string or a bare number, and a role value that is not "1" signs as
// attendee.
type MeetingSignatureRequest struct {
	MeetingNumber any
	Role          any
}

type MeetingSignatureResponse struct {
	Signature string `json:"signature"`
	SDKKey    string `json:"sdkKey"`
	Role      int    `json:"role"`
	ZAK       string `json:"zak,omitempty"`
}

// CreateMeetingRequest carries the input of the full meeting-creation flow.
// PublicBaseURL is the externally reachable base URL of this service, used
// to build the share link.
type CreateMeetingRequest struct {
	Topic         string
	HostName      string
	PublicBaseURL string
}

type CreateMeetingResponse struct {
	Topic         string   `json:"topic"`
	HostName      string   `json:"hostName"`
	MeetingNumber string   `json:"meetingNumber"`
	Passcode      string   `json:"passcode,omitempty"`
	JoinURL       string   `json:"joinUrl,omitempty"`
	StartURL      string   `json:"startUrl,omitempty"`
	SDKKey        string   `json:"sdkKey"`
	Signature     string   `json:"signature"`
	ShareLink     string   `json:"shareLink,omitempty"`
	ZAK           string   `json:"zak,omitempty"`
	ZAKExpiresIn  int      `json:"zakExpiresIn,omitempty"`
	ZAKSource     string   `json:"zakSource,omitempty"`
	Warnings      []string `json:"warnings"`
}

// SaveMeetingRequest carries an explicit reservation request.
type SaveMeetingRequest struct {
	SessionName string
	HostName    string
	StartTime   string

	RemoteMeetingID string
	JoinURL         string
	StartURL        string
	Passcode        string
}

// SaveMeetingResponse reports the stored row and whether the write was
// degraded because the remote schema lacks the optional columns.
type SaveMeetingResponse struct {
	Meeting *storage.MeetingRow
	Warning string
}
