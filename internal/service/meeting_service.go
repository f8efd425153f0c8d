package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/udfnd/zoomclass/internal/audit"
	"github.com/udfnd/zoomclass/internal/config"
	"github.com/udfnd/zoomclass/internal/core"
	"github.com/udfnd/zoomclass/internal/signer"
	"github.com/udfnd/zoomclass/internal/storage"
	"github.com/udfnd/zoomclass/internal/zoom"
)

// Non-fatal degradations reported alongside a successful response.
const (
	WarnZAKUnavailable         = "zak_unavailable"
	WarnPersistenceFailed      = "persistence_failed"
	WarnStorageNotConfigured   = "storage_not_configured"
	WarnMissingOptionalColumns = "missing_optional_columns"
)

// zakExpiresIn is the provider's documented two-hour ZAK lifetime, in
// seconds. The token endpoint does not report an expiry itself.
const zakExpiresIn = 7200

// MeetingService orchestrates signature issuance, remote meeting creation
// and meeting persistence.
type MeetingService struct {
	creds   config.Credentials
	signer  *signer.Signer
	zoom    *zoom.Client
	store   *storage.Gateway // nil when storage is not configured
	auditor core.Auditor
}

func NewMeetingService(
	creds config.Credentials,
	sig *signer.Signer,
	zoomClient *zoom.Client,
	store *storage.Gateway,
	auditor core.Auditor,
) *MeetingService {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}
	return &MeetingService{
		creds:   creds,
		signer:  sig,
		zoom:    zoomClient,
		store:   store,
		auditor: auditor,
	}
}

// IssueSignature signs a meeting-session token. Host requests additionally
// resolve a ZAK; for those, ZAK failure is fatal because the caller
// explicitly asked for host capabilities.
func (s *MeetingService) IssueSignature(ctx context.Context, req MeetingSignatureRequest) (*MeetingSignatureResponse, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	role := signer.NormalizeRole(req.Role)
	meetingNumber := signer.NormalizeMeetingNumber(req.MeetingNumber)

	auditEntry := core.AuditEntry{
		ID:            reqID,
		Time:          time.Now(),
		Action:        "signature.issue",
		MeetingNumber: meetingNumber,
		Role:          role,
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for signature issuance")
		}
	}()

	if meetingNumber == "" {
		auditEntry.Error = "meetingNumber missing"
		return nil, httpError(http.StatusBadRequest, core.Validationf("meetingNumber is required"))
	}

	if role == signer.RoleHost && !s.creds.HasAPICredentials() {
		auditEntry.Error = "host signature without api credentials"
		return nil, httpError(http.StatusBadRequest, core.Configurationf(
			"host signatures require Zoom API credentials; configure the Server-to-Server OAuth triad or the legacy API key pair"))
	}

	signature, err := s.signer.SignMeetingSession(meetingNumber, role)
	if err != nil {
		auditEntry.Error = err.Error()
		var validationErr *core.ValidationError
		if errors.As(err, &validationErr) {
			return nil, httpError(http.StatusBadRequest, err)
		}
		return nil, httpError(http.StatusInternalServerError, err)
	}

	resp := &MeetingSignatureResponse{
		Signature: signature,
		SDKKey:    s.creds.SDKKey,
		Role:      role,
	}

	if role == signer.RoleHost {
		zak, err := s.zoom.UserZAK(ctx)
		if err != nil {
			auditEntry.Error = "zak issuance failed: " + err.Error()
			return nil, httpError(http.StatusInternalServerError, err)
		}
		resp.ZAK = zak
	}

	auditEntry.Granted = true
	auditEntry.TokenFingerprint = audit.CalculateFingerprint(audit.MeetingSDKFingerprintType, signature)

	logger.Info().
		Str("meeting_number", auditEntry.MeetingNumber).
		Int("role", role).
		Msg("meeting signature issued")

	return resp, nil
}

// VideoToken signs a video-session token for the given session and user.
func (s *MeetingService) VideoToken(ctx context.Context, sessionName, userID string) (string, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	auditEntry := core.AuditEntry{
		ID:     reqID,
		Time:   time.Now(),
		Action: "video_token.issue",
		Topic:  strings.TrimSpace(sessionName),
		Role:   signer.RoleHost,
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for video token issuance")
		}
	}()

	token, err := s.signer.SignVideoSession(sessionName, userID)
	if err != nil {
		auditEntry.Error = err.Error()
		var validationErr *core.ValidationError
		if errors.As(err, &validationErr) {
			return "", httpError(http.StatusBadRequest, err)
		}
		// missing SDK credentials are a deployment problem here, not a
		// caller-fixable one
		return "", httpError(http.StatusInternalServerError, err)
	}

	auditEntry.Granted = true
	auditEntry.TokenFingerprint = audit.CalculateFingerprint(audit.VideoSDKFingerprintType, token)

	logger.Info().Str("session", auditEntry.Topic).Msg("video session token issued")
	return token, nil
}

// CreateClassMeeting runs the full creation flow: remote meeting, host
// token, session signature, and best-effort persistence. Only the remote
// meeting and the signature are required for success; everything else
// degrades into warnings.
func (s *MeetingService) CreateClassMeeting(ctx context.Context, req CreateMeetingRequest) (*CreateMeetingResponse, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	topic := strings.TrimSpace(req.Topic)
	hostName := strings.TrimSpace(req.HostName)

	auditEntry := core.AuditEntry{
		ID:       reqID,
		Time:     time.Now(),
		Action:   "meeting.create",
		Topic:    topic,
		HostName: hostName,
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for meeting creation")
		}
	}()

	if topic == "" {
		auditEntry.Error = "topic missing"
		return nil, httpError(http.StatusBadRequest, core.Validationf("topic is required"))
	}
	if hostName == "" {
		auditEntry.Error = "hostName missing"
		return nil, httpError(http.StatusBadRequest, core.Validationf("hostName is required"))
	}
	if !s.creds.HasAPICredentials() {
		auditEntry.Error = "api credentials missing"
		return nil, httpError(http.StatusBadRequest, core.Configurationf(
			"Zoom API credentials are not configured; set the Server-to-Server OAuth triad or the legacy API key pair"))
	}
	if !s.creds.HasSDKCredentials() {
		auditEntry.Error = "sdk credentials missing"
		return nil, httpError(http.StatusInternalServerError, core.Configurationf(
			"meeting SDK credentials are not configured"))
	}

	result, err := s.zoom.CreateMeeting(ctx, topic, hostName)
	if err != nil {
		auditEntry.Error = "meeting creation failed: " + err.Error()
		var configErr *core.ConfigurationError
		if errors.As(err, &configErr) {
			return nil, httpError(http.StatusBadRequest, err)
		}
		return nil, httpError(http.StatusBadGateway, err)
	}
	meeting := result.Meeting
	auditEntry.MeetingNumber = meeting.ID

	warnings := make([]string, 0, 2)

	role := signer.RoleAttendee
	if result.HostToken != "" {
		role = signer.RoleHost
	} else {
		warnings = append(warnings, WarnZAKUnavailable)
	}
	auditEntry.Role = role

	signature, err := s.signer.SignMeetingSession(meeting.ID, role)
	if err != nil {
		auditEntry.Error = "signature generation failed: " + err.Error()
		return nil, httpError(http.StatusInternalServerError, err)
	}

	warnings = append(warnings, s.persistCreatedMeeting(ctx, meeting, hostName)...)

	resp := &CreateMeetingResponse{
		Topic:         topic,
		HostName:      hostName,
		MeetingNumber: meeting.ID,
		Passcode:      meeting.Passcode,
		JoinURL:       meeting.JoinURL,
		StartURL:      meeting.StartURL,
		SDKKey:        s.creds.SDKKey,
		Signature:     signature,
		ShareLink:     buildShareLink(req.PublicBaseURL, meeting, topic, hostName),
		ZAK:           result.HostToken,
		ZAKSource:     result.HostTokenSource,
		Warnings:      warnings,
	}
	if result.HostToken != "" {
		resp.ZAKExpiresIn = zakExpiresIn
	}

	auditEntry.Granted = true
	auditEntry.Warning = warnings
	auditEntry.TokenFingerprint = audit.CalculateFingerprint(audit.MeetingSDKFingerprintType, signature)

	logger.Info().
		Str("meeting_number", meeting.ID).
		Str("zak_source", result.HostTokenSource).
		Strs("warnings", warnings).
		Msg("meeting created")

	return resp, nil
}

// persistCreatedMeeting writes the bookkeeping row for a freshly created
// meeting. Failures never abort the creation flow.
func (s *MeetingService) persistCreatedMeeting(ctx context.Context, meeting *zoom.Meeting, hostName string) []string {
	logger := log.Ctx(ctx)

	if s.store == nil {
		return []string{WarnStorageNotConfigured}
	}

	record := &core.MeetingRecord{
		SessionName:     meeting.Topic,
		HostName:        hostName,
		StartTime:       time.Now().UTC(),
		RemoteMeetingID: meeting.ID,
		JoinURL:         meeting.JoinURL,
		StartURL:        meeting.StartURL,
		Passcode:        meeting.Passcode,
	}
	if record.SessionName == "" {
		record.SessionName = meeting.ID
	}

	saved, err := s.store.SaveMeeting(ctx, record)
	if err != nil {
		logger.Warn().Err(err).Msg("persisting created meeting failed")
		return []string{WarnPersistenceFailed}
	}
	if saved.MissingOptionalColumns {
		return []string{WarnMissingOptionalColumns}
	}
	return nil
}

// SaveMeeting persists an explicit reservation.
func (s *MeetingService) SaveMeeting(ctx context.Context, req SaveMeetingRequest) (*SaveMeetingResponse, error) {
	if s.store == nil {
		return nil, httpError(http.StatusInternalServerError, core.Configurationf(
			"storage is not configured (set SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY)"))
	}

	record, err := core.NewMeetingRecord(req.SessionName, req.HostName, req.StartTime)
	if err != nil {
		return nil, httpError(http.StatusBadRequest, err)
	}
	record.RemoteMeetingID = strings.TrimSpace(req.RemoteMeetingID)
	record.JoinURL = strings.TrimSpace(req.JoinURL)
	record.StartURL = strings.TrimSpace(req.StartURL)
	record.Passcode = strings.TrimSpace(req.Passcode)

	saved, err := s.store.SaveMeeting(ctx, record)
	if err != nil {
		return nil, httpError(http.StatusInternalServerError, err)
	}

	resp := &SaveMeetingResponse{Meeting: saved.Record}
	if resp.Meeting == nil {
		// the store did not echo the row back; answer with what we sent
		resp.Meeting = &storage.MeetingRow{
			SessionName:     record.SessionName,
			HostName:        record.HostName,
			StartTime:       record.StartTime,
			RemoteMeetingID: record.RemoteMeetingID,
			JoinURL:         record.JoinURL,
			StartURL:        record.StartURL,
			Passcode:        record.Passcode,
		}
	}
	if saved.MissingOptionalColumns {
		resp.Warning = WarnMissingOptionalColumns
	}
	return resp, nil
}

// ListMeetings returns stored meetings matching the query.
func (s *MeetingService) ListMeetings(ctx context.Context, q storage.ListQuery) ([]storage.MeetingRow, error) {
	if s.store == nil {
		return nil, httpError(http.StatusInternalServerError, core.Configurationf(
			"storage is not configured (set SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY)"))
	}
	rows, err := s.store.ListMeetings(ctx, q)
	if err != nil {
		return nil, httpError(http.StatusInternalServerError, err)
	}
	return rows, nil
}

// AuditEntries returns recent audit entries, newest last, optionally
// filtered by action. Only queryable sinks support this; the file and noop
// sinks do not.
func (s *MeetingService) AuditEntries(action string, limit int) ([]core.AuditEntry, error) {
	reader, ok := s.auditor.(core.AuditReader)
	if !ok {
		return nil, httpError(http.StatusNotImplemented, core.Configurationf(
			"the configured audit sink cannot be queried; use the memory sink"))
	}

	var (
		entries []core.AuditEntry
		err     error
	)
	if action == "" {
		entries, err = reader.GetRecent(limit)
	} else {
		entries, err = reader.Find(func(entry core.AuditEntry) bool {
			return entry.Action == action
		}, limit)
	}
	if err != nil {
		return nil, httpError(http.StatusInternalServerError, err)
	}
	return entries, nil
}

// Credentials exposes the loaded credential predicates to handlers that
// only need to shape responses.
func (s *MeetingService) Credentials() config.Credentials {
	return s.creds
}

func buildShareLink(baseURL string, meeting *zoom.Meeting, topic, hostName string) string {
	if baseURL == "" {
		return meeting.JoinURL
	}
	params := url.Values{}
	params.Set("meetingNumber", meeting.ID)
	if meeting.Passcode != "" {
		params.Set("passcode", meeting.Passcode)
	}
	params.Set("topic", topic)
	params.Set("hostName", hostName)
	return strings.TrimRight(baseURL, "/") + "/join?" + params.Encode()
}
