package audit

import (
	"fmt"

	"github.com/udfnd/zoomclass/internal/buildinfo"
	"github.com/udfnd/zoomclass/internal/core"
)

// CreateUserAgent tags outbound provider calls with the correlation ID so a
// request can be traced from the provider's logs back to ours.
func CreateUserAgent(correlationID string) string {
	return fmt.Sprintf("ZoomClass/%s (correlation_id=%s)", buildinfo.Version, correlationID)
}

// FromConfig builds the configured auditor. A disabled or unknown sink
// yields the noop auditor.
func FromConfig(enabled bool, sinkType, path string) (core.Auditor, error) {
	if !enabled {
		return NewNoopAuditor(), nil
	}
	switch sinkType {
	case "file":
		return NewFileAuditor(path)
	case "memory", "":
		return NewInMemoryAuditor(), nil
	default:
		return nil, fmt.Errorf("unknown audit sink type %q", sinkType)
	}
}
