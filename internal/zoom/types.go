package zoom

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Meeting is the clean internal view of a created meeting. The remote API
// is not consistent about field names across endpoints and versions, so the
// raw response is normalized through decodeMeeting.
type Meeting struct {
	ID       string
	Topic    string
	Passcode string
	JoinURL  string
	StartURL string
}

// meetingPayload mirrors the loose upstream response. Numeric fields are
// coerced to strings by the weakly-typed decode.
type meetingPayload struct {
	ID            string `mapstructure:"id"`
	MeetingID     string `mapstructure:"meeting_id"`
	MeetingNumber string `mapstructure:"meetingNumber"`

	Topic string `mapstructure:"topic"`

	Password string `mapstructure:"password"`
	Passcode string `mapstructure:"passcode"`

	JoinURL  string `mapstructure:"join_url"`
	StartURL string `mapstructure:"start_url"`
}

// decodeMeeting normalizes a raw meeting response. Identifier precedence is
// id, then meeting_id, then meetingNumber; passcode precedence is password,
// then passcode.
func decodeMeeting(raw map[string]any) (*Meeting, error) {
	var payload meetingPayload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &payload,
	})
	if err != nil {
		return nil, fmt.Errorf("creating meeting decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding meeting response: %w", err)
	}

	id := payload.ID
	if id == "" {
		id = payload.MeetingID
	}
	if id == "" {
		id = payload.MeetingNumber
	}
	if id == "" {
		return nil, fmt.Errorf("meeting response carried no identifier")
	}

	passcode := payload.Password
	if passcode == "" {
		passcode = payload.Passcode
	}

	return &Meeting{
		ID:       id,
		Topic:    payload.Topic,
		Passcode: passcode,
		JoinURL:  payload.JoinURL,
		StartURL: payload.StartURL,
	}, nil
}
