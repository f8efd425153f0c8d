package presenter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/udfnd/zoomclass/internal/service"
)

type ErrorResponse struct {
	Error         string `json:"error"`
	Details       string `json:"details,omitempty"`
	CorrelationID string `json:"correlation_id"`
}

func JSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write json response")
	}
}

func Error(w http.ResponseWriter, r *http.Request, msg string, status int) {
	correlationID, _ := r.Context().Value("correlation_id").(string)
	resp := ErrorResponse{
		Error:         msg,
		CorrelationID: correlationID,
	}
	JSON(w, r, resp, status)
}

// Err writes a JSON error response, picking the status from a wrapped
// service.HTTPError and carrying the underlying message in details so a
// calling UI can surface remediation text.
func Err(w http.ResponseWriter, r *http.Request, err error, short string) {
	status := http.StatusInternalServerError
	details := ""
	var httpErr *service.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode
		details = httpErr.Wrapped.Error()
	} else if err != nil {
		details = err.Error()
	}

	correlationID, _ := r.Context().Value("correlation_id").(string)
	JSON(w, r, ErrorResponse{
		Error:         short,
		Details:       details,
		CorrelationID: correlationID,
	}, status)
}
