package api

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/udfnd/zoomclass/internal/api/presenter"
)

// joinPageTemplate is the one legacy human-facing page this service keeps.
// Everything else renders in the frontend.
var joinPageTemplate = template.Must(template.New("join").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Join {{if .Topic}}{{.Topic}}{{else}}Meeting{{end}}</title>
  <style>
    body { font-family: sans-serif; max-width: 40rem; margin: 3rem auto; padding: 0 1rem; }
    code { background: #f2f2f2; padding: 0.15rem 0.35rem; border-radius: 4px; }
    .field { margin: 0.75rem 0; }
  </style>
</head>
<body>
  <h1>{{if .Topic}}{{.Topic}}{{else}}Join Meeting{{end}}</h1>
  {{if .HostName}}<p>Hosted by {{.HostName}}</p>{{end}}
  <div class="field">Meeting number: <code>{{.MeetingNumber}}</code></div>
  {{if .Passcode}}<div class="field">Passcode: <code>{{.Passcode}}</code></div>{{end}}
  {{if .BackendURL}}
  <p>Open the class app and enter the meeting number and passcode above, or
  follow the link your host shared. The app connects to
  <code>{{.BackendURL}}</code>.</p>
  {{else}}
  <p>Open the class app and enter the meeting number and passcode above.</p>
  {{end}}
</body>
</html>
`))

type joinPageData struct {
	MeetingNumber string `json:"meetingNumber"`
	Passcode      string `json:"passcode,omitempty"`
	Topic         string `json:"topic,omitempty"`
	HostName      string `json:"hostName,omitempty"`
	BackendURL    string `json:"backendUrl,omitempty"`
}

// handleJoin renders human-facing join instructions, or JSON when the
// client asks for it.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := joinPageData{
		MeetingNumber: strings.TrimSpace(q.Get("meetingNumber")),
		Passcode:      q.Get("passcode"),
		Topic:         q.Get("topic"),
		HostName:      q.Get("hostName"),
		BackendURL:    q.Get("backendUrl"),
	}

	if data.MeetingNumber == "" {
		presenter.Error(w, r, "meetingNumber is required", http.StatusBadRequest)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		presenter.JSON(w, r, data, http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := joinPageTemplate.Execute(w, data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to render join page")
	}
}
