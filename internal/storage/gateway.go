// Package storage persists meeting records to a Supabase/PostgREST-style
// REST store. The remote schema is only loosely known: optional columns may
// not have been migrated yet and the conflict clause used for upserts may be
// unsupported, so writes degrade through an ordered fallback chain instead
// of failing outright.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/udfnd/zoomclass/internal/core"
)

const (
	meetingsTable = "meetings"
	restPrefix    = "/rest/v1/"

	// upsert conflict target; matches the unique index on the meetings table
	conflictColumns = "session_name,start_time"
)

// Gateway is a thin client over the REST store.
type Gateway struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewGateway(baseURL, serviceKey string, httpClient *http.Client) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: httpClient,
	}
}

// MeetingRow is a stored meeting as echoed back by the store.
type MeetingRow struct {
	ID              any       `json:"id,omitempty"`
	SessionName     string    `json:"session_name"`
	HostName        string    `json:"host_name"`
	StartTime       time.Time `json:"start_time"`
	RemoteMeetingID string    `json:"remote_meeting_id,omitempty"`
	JoinURL         string    `json:"join_url,omitempty"`
	StartURL        string    `json:"start_url,omitempty"`
	Passcode        string    `json:"passcode,omitempty"`
}

// SaveResult reports a successful write.
type SaveResult struct {
	// Record is the stored row if the store echoed it back.
	Record *MeetingRow

	// MissingOptionalColumns is set when an attempt failed because the
	// remote schema lacks the optional columns. The write still succeeded
	// through a later attempt, just without the optional metadata.
	MissingOptionalColumns bool

	// Attempt names the strategy that succeeded.
	Attempt string
}

// SaveMeeting writes a meeting record, degrading through upsert-full,
// insert-full and insert-base until one succeeds. All attempts failing
// yields a PersistError carrying the last underlying failure.
func (g *Gateway) SaveMeeting(ctx context.Context, rec *core.MeetingRecord) (*SaveResult, error) {
	fullRow := rowPayload(rec, true)
	baseRow := rowPayload(rec, false)

	missingOptional := false
	classify := func(err error) {
		if isMissingColumnError(err) && rec.HasOptionalFields() {
			missingOptional = true
		}
	}

	result, attempt, failures := core.RunChain(ctx, []core.Strategy[*MeetingRow]{
		{
			Name: "upsert_full",
			Run: func(ctx context.Context) (*MeetingRow, core.Outcome, error) {
				row, err := g.write(ctx, fullRow, true)
				if err != nil {
					classify(err)
					if isConflictUnsupportedError(err) {
						log.Ctx(ctx).Debug().Err(err).Msg("store does not support the upsert conflict clause, skipping to plain insert")
					}
					return nil, core.OutcomeRetryable, err
				}
				return row, core.OutcomeSuccess, nil
			},
		},
		{
			Name: "insert_full",
			Run: func(ctx context.Context) (*MeetingRow, core.Outcome, error) {
				row, err := g.write(ctx, fullRow, false)
				if err != nil {
					classify(err)
					return nil, core.OutcomeRetryable, err
				}
				return row, core.OutcomeSuccess, nil
			},
		},
		{
			Name: "insert_base",
			Run: func(ctx context.Context) (*MeetingRow, core.Outcome, error) {
				row, err := g.write(ctx, baseRow, false)
				if err != nil {
					return nil, core.OutcomeRetryable, err
				}
				return row, core.OutcomeSuccess, nil
			},
		},
	})

	if attempt == "" {
		var last error
		if len(failures) > 0 {
			last = failures[len(failures)-1]
		}
		return nil, &core.PersistError{Msg: "all persistence attempts failed", Last: last}
	}

	log.Ctx(ctx).Debug().
		Str("attempt", attempt).
		Bool("missing_optional_columns", missingOptional).
		Msg("meeting record persisted")

	return &SaveResult{
		Record:                 result,
		MissingOptionalColumns: missingOptional,
		Attempt:                attempt,
	}, nil
}

// ListQuery filters the meetings listing.
type ListQuery struct {
	// Date restricts results to [Date 00:00, next day 00:00) UTC.
	Date *time.Time

	// Upcoming restricts results to start times from now on.
	Upcoming bool

	// Limit caps the number of rows; zero means the store's default.
	Limit int
}

// ListMeetings returns meeting rows matching the query, ascending by start
// time.
func (g *Gateway) ListMeetings(ctx context.Context, q ListQuery) ([]MeetingRow, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("order", "start_time.asc")
	if q.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", q.Limit))
	}
	switch {
	case q.Date != nil:
		dayStart := q.Date.UTC().Truncate(24 * time.Hour)
		dayEnd := dayStart.Add(24 * time.Hour)
		params.Add("start_time", "gte."+dayStart.Format(time.RFC3339))
		params.Add("start_time", "lt."+dayEnd.Format(time.RFC3339))
	case q.Upcoming:
		params.Add("start_time", "gte."+time.Now().UTC().Format(time.RFC3339))
	}

	endpoint := g.baseURL + restPrefix + meetingsTable + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	g.authorize(req)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &core.PersistError{Msg: "querying meetings", Last: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.PersistError{Msg: "reading meetings response", Last: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &core.PersistError{
			Msg:  "querying meetings",
			Last: fmt.Errorf("store responded with status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var rows []MeetingRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &core.PersistError{Msg: "decoding meetings response", Last: err}
	}

	// the order parameter should already have sorted these, but the schema
	// is loosely known, so do not rely on it
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].StartTime.Before(rows[j].StartTime)
	})

	return rows, nil
}

// write performs one insert (or upsert) and decodes the echoed row.
func (g *Gateway) write(ctx context.Context, row map[string]any, upsert bool) (*MeetingRow, error) {
	endpoint := g.baseURL + restPrefix + meetingsTable
	prefer := "return=representation"
	if upsert {
		endpoint += "?on_conflict=" + url.QueryEscape(conflictColumns)
		prefer = "resolution=merge-duplicates," + prefer
	}

	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshalling row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	g.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", prefer)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("store rejected write with status %d: %s", resp.StatusCode, string(body))
	}

	// the store echoes the written rows as an array
	var rows []MeetingRow
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return nil, nil // success without a readable echo is still success
	}
	return &rows[0], nil
}

func (g *Gateway) authorize(req *http.Request) {
	req.Header.Set("apikey", g.serviceKey)
	req.Header.Set("Authorization", "Bearer "+g.serviceKey)
}

// rowPayload builds the wire row. Optional fields are included only when
// non-empty and requested.
func rowPayload(rec *core.MeetingRecord, includeOptional bool) map[string]any {
	row := map[string]any{
		"session_name": rec.SessionName,
		"host_name":    rec.HostName,
		"start_time":   rec.StartTime.Format(time.RFC3339),
	}
	if !includeOptional {
		return row
	}
	if rec.RemoteMeetingID != "" {
		row["remote_meeting_id"] = rec.RemoteMeetingID
	}
	if rec.JoinURL != "" {
		row["join_url"] = rec.JoinURL
	}
	if rec.StartURL != "" {
		row["start_url"] = rec.StartURL
	}
	if rec.Passcode != "" {
		row["passcode"] = rec.Passcode
	}
	return row
}

// isMissingColumnError matches the store's many ways of saying a column in
// the payload does not exist in the remote schema.
func isMissingColumnError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "column") {
		return false
	}
	return strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "could not find") ||
		strings.Contains(msg, "unknown column") ||
		strings.Contains(msg, "pgrst204")
}

// isConflictUnsupportedError matches failures of the upsert conflict clause
// (e.g. no unique index on the conflict target).
func isConflictUnsupportedError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "on_conflict") ||
		strings.Contains(msg, "no unique or exclusion constraint") ||
		strings.Contains(msg, "42p10")
}
