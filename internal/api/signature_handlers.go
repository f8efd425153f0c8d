package api

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/udfnd/zoomclass/internal/api/presenter"
	"github.com/udfnd/zoomclass/internal/service"
)

// SignPayload is the body of a signature request. Both fields deliberately
// stay untyped: clients send the meeting number as a string or a bare
// number, and a role value that is not "1" signs as attendee.
type SignPayload struct {
	MeetingNumber any `json:"meetingNumber"`
	Role          any `json:"role"`
}

// handleSign issues a meeting-session signature, with a ZAK for host
// requests.
func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload SignPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode sign request payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	result, err := s.meetingService.IssueSignature(ctx, service.MeetingSignatureRequest{
		MeetingNumber: payload.MeetingNumber,
		Role:          payload.Role,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("signature issuance failed")
		presenter.Err(w, r, err, "signature issuance failed")
		return
	}

	presenter.JSON(w, r, result, http.StatusOK)
}

// handleGenerateToken issues a video-session token.
func (s *Server) handleGenerateToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	q := r.URL.Query()
	sessionName := q.Get("sessionName")
	userID := q.Get("userId")

	token, err := s.meetingService.VideoToken(ctx, sessionName, userID)
	if err != nil {
		logger.Warn().Err(err).Msg("video token issuance failed")
		presenter.Err(w, r, err, "video token issuance failed")
		return
	}

	presenter.JSON(w, r, map[string]string{"token": token}, http.StatusOK)
}
