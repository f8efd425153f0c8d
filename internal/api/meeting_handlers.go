package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/udfnd/zoomclass/internal/api/presenter"
	"github.com/udfnd/zoomclass/internal/service"
	"github.com/udfnd/zoomclass/internal/storage"
)

type CreateMeetingPayload struct {
	Topic    string `json:"topic"`
	HostName string `json:"hostName"`
}

type SaveMeetingPayload struct {
	SessionName string `json:"sessionName"`
	HostName    string `json:"hostName"`
	StartTime   string `json:"startTime"`

	MeetingID string `json:"meetingId,omitempty"`
	JoinURL   string `json:"joinUrl,omitempty"`
	StartURL  string `json:"startUrl,omitempty"`
	Passcode  string `json:"passcode,omitempty"`
}

// handleCreateMeeting runs the full creation flow: remote meeting, session
// signature, best-effort persistence.
func (s *Server) handleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload CreateMeetingPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode create meeting payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	result, err := s.meetingService.CreateClassMeeting(ctx, service.CreateMeetingRequest{
		Topic:         payload.Topic,
		HostName:      payload.HostName,
		PublicBaseURL: publicBaseURL(r),
	})
	if err != nil {
		logger.Error().Err(err).Msg("meeting creation failed")
		presenter.Err(w, r, err, "meeting creation failed")
		return
	}

	presenter.JSON(w, r, result, http.StatusCreated)
}

// handleSaveMeeting persists an explicit reservation. A degraded write (the
// store lacks the optional columns) answers 207 instead of 201.
func (s *Server) handleSaveMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload SaveMeetingPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode save meeting payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	result, err := s.meetingService.SaveMeeting(ctx, service.SaveMeetingRequest{
		SessionName:     payload.SessionName,
		HostName:        payload.HostName,
		StartTime:       payload.StartTime,
		RemoteMeetingID: payload.MeetingID,
		JoinURL:         payload.JoinURL,
		StartURL:        payload.StartURL,
		Passcode:        payload.Passcode,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("saving meeting failed")
		presenter.Err(w, r, err, "saving meeting failed")
		return
	}

	body := map[string]any{"meeting": result.Meeting}
	status := http.StatusCreated
	if result.Warning != "" {
		body["warning"] = result.Warning
		status = http.StatusMultiStatus
	}
	presenter.JSON(w, r, body, status)
}

// handleListMeetings returns stored meetings filtered by date or range,
// ascending by start time.
func (s *Server) handleListMeetings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	q := r.URL.Query()
	query := storage.ListQuery{}

	if dateStr := q.Get("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			presenter.Error(w, r, "invalid date parameter, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		query.Date = &date
	} else if q.Get("range") == "upcoming" {
		query.Upcoming = true
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		query.Limit = limit
	}

	rows, err := s.meetingService.ListMeetings(ctx, query)
	if err != nil {
		logger.Warn().Err(err).Msg("listing meetings failed")
		presenter.Err(w, r, err, "listing meetings failed")
		return
	}
	if rows == nil {
		rows = []storage.MeetingRow{}
	}

	presenter.JSON(w, r, map[string]any{"meetings": rows}, http.StatusOK)
}
