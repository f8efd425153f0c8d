package client

import (
	"context"
	"net/url"

	"github.com/udfnd/zoomclass/internal/api"
	"github.com/udfnd/zoomclass/internal/service"
)

// Sign requests a meeting-session signature from the server.
func (c *Client) Sign(ctx context.Context, meetingNumber string, role int) (*service.MeetingSignatureResponse, string, error) {
	payload := api.SignPayload{
		MeetingNumber: meetingNumber,
		Role:          role,
	}
	var result service.MeetingSignatureResponse
	correlation, err := c.post(ctx, c.endpoint(api.MeetingSignatureRoute), payload, &result)
	if err != nil {
		return nil, correlation, err
	}
	return &result, correlation, nil
}

// VideoToken requests a video-session token from the server.
func (c *Client) VideoToken(ctx context.Context, sessionName, userID string) (string, string, error) {
	params := url.Values{}
	params.Set("sessionName", sessionName)
	params.Set("userId", userID)

	var result struct {
		Token string `json:"token"`
	}
	correlation, err := c.get(ctx, c.endpoint(api.GenerateTokenRoute)+"?"+params.Encode(), &result)
	return result.Token, correlation, err
}
