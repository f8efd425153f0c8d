package audit

import "github.com/udfnd/zoomclass/internal/core"

var _ core.Auditor = (*NoopAuditor)(nil)

// NoopAuditor discards all audit entries.
type NoopAuditor struct{}

func NewNoopAuditor() *NoopAuditor {
	return &NoopAuditor{}
}

func (n *NoopAuditor) Log(core.AuditEntry) error {
	return nil
}

func (n *NoopAuditor) Close() error {
	return nil
}
