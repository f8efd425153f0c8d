package client

import (
	"context"

	"github.com/udfnd/zoomclass/internal/api"
	"github.com/udfnd/zoomclass/internal/buildinfo"
)

func (c *Client) Health(ctx context.Context) (string, error) {
	var result struct {
		Status string `json:"status"`
	}
	_, err := c.get(ctx, c.endpoint(api.HealthCheckRoute), &result)
	return result.Status, err
}

func (c *Client) Info(ctx context.Context) (*buildinfo.Info, string, error) {
	var info buildinfo.Info
	correlation, err := c.get(ctx, c.endpoint(api.AboutRoute), &info)
	return &info, correlation, err
}
