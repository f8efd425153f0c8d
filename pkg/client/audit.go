package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/udfnd/zoomclass/internal/api"
	"github.com/udfnd/zoomclass/internal/core"
)

// AuditEntries retrieves recent audit entries from the server, optionally
// filtered by action.
func (c *Client) AuditEntries(ctx context.Context, action string, limit int) ([]core.AuditEntry, string, error) {
	params := url.Values{}
	if action != "" {
		params.Set("action", action)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	endpoint := c.endpoint(api.AuditRoute)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var result struct {
		Entries []core.AuditEntry `json:"entries"`
	}
	correlation, err := c.get(ctx, endpoint, &result)
	return result.Entries, correlation, err
}
