package api

import (
	"net/http"

	"github.com/udfnd/zoomclass/internal/api/middleware"
	"github.com/udfnd/zoomclass/internal/service"
)

type Server struct {
	meetingService *service.MeetingService
}

func NewServer(meetingService *service.MeetingService) *Server {
	return &Server{
		meetingService: meetingService,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)

	// token issuance routes
	mux.HandleFunc("POST "+SignRoute, s.handleSign)
	mux.HandleFunc("POST "+MeetingSignatureRoute, s.handleSign)
	mux.HandleFunc("GET "+GenerateTokenRoute, s.handleGenerateToken)

	// meeting routes
	mux.HandleFunc("POST "+CreateMeetingRoute, s.handleCreateMeeting)
	mux.HandleFunc("POST "+MeetingsRoute, s.handleSaveMeeting)
	mux.HandleFunc("GET "+MeetingsRoute, s.handleListMeetings)

	// human-facing join page
	mux.HandleFunc("GET "+JoinRoute, s.handleJoin)

	// audit inspection
	mux.HandleFunc("GET "+AuditRoute, s.handleAuditLog)

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				mux)))
}
