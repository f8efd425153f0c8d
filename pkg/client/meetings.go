package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/udfnd/zoomclass/internal/api"
	"github.com/udfnd/zoomclass/internal/service"
	"github.com/udfnd/zoomclass/internal/storage"
)

// ListMeetingsOptions filters the meetings listing. Zero values list
// everything the server returns by default.
type ListMeetingsOptions struct {
	// Date restricts results to a single day.
	Date *time.Time

	// Upcoming restricts results to meetings from now on.
	Upcoming bool

	// Limit caps the number of returned rows.
	Limit int
}

func (c *Client) ListMeetings(ctx context.Context, opts ListMeetingsOptions) ([]storage.MeetingRow, string, error) {
	params := url.Values{}
	if opts.Date != nil {
		params.Set("date", opts.Date.Format("2006-01-02"))
	} else if opts.Upcoming {
		params.Set("range", "upcoming")
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}

	endpoint := c.endpoint(api.MeetingsRoute)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var result struct {
		Meetings []storage.MeetingRow `json:"meetings"`
	}
	correlation, err := c.get(ctx, endpoint, &result)
	return result.Meetings, correlation, err
}

// SaveMeeting persists a reservation through the server.
func (c *Client) SaveMeeting(ctx context.Context, payload api.SaveMeetingPayload) (*storage.MeetingRow, string, error) {
	var result struct {
		Meeting *storage.MeetingRow `json:"meeting"`
		Warning string              `json:"warning,omitempty"`
	}
	correlation, err := c.post(ctx, c.endpoint(api.MeetingsRoute), payload, &result)
	return result.Meeting, correlation, err
}

// CreateMeeting runs the full meeting-creation flow on the server.
func (c *Client) CreateMeeting(ctx context.Context, topic, hostName string) (*service.CreateMeetingResponse, string, error) {
	payload := api.CreateMeetingPayload{
		Topic:    topic,
		HostName: hostName,
	}
	var result service.CreateMeetingResponse
	correlation, err := c.post(ctx, c.endpoint(api.CreateMeetingRoute), payload, &result)
	if err != nil {
		return nil, correlation, err
	}
	return &result, correlation, nil
}
