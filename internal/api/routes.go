package api

const (
	HealthCheckRoute = "/health"
	AboutRoute       = "/about"

	// SignRoute and MeetingSignatureRoute are aliases; both deployments of
	// the frontend exist in the wild.
	SignRoute             = "/sign"
	MeetingSignatureRoute = "/meeting/signature"

	GenerateTokenRoute = "/generate-token"

	CreateMeetingRoute = "/meeting/create"
	MeetingsRoute      = "/meetings"

	JoinRoute = "/join"

	AuditRoute = "/audit"
)
