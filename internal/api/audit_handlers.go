package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/udfnd/zoomclass/internal/api/presenter"
	"github.com/udfnd/zoomclass/internal/core"
)

const defaultAuditLimit = 50

// handleAuditLog returns recent audit entries, optionally filtered by
// action. Only available when the audit sink is queryable.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	q := r.URL.Query()
	limit := defaultAuditLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			presenter.Error(w, r, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := s.meetingService.AuditEntries(q.Get("action"), limit)
	if err != nil {
		logger.Warn().Err(err).Msg("reading audit log failed")
		presenter.Err(w, r, err, "reading audit log failed")
		return
	}
	if entries == nil {
		entries = []core.AuditEntry{}
	}

	presenter.JSON(w, r, map[string]any{"entries": entries}, http.StatusOK)
}
