package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncRegistration is a no-op.
func (n *NoopRecorder) IncRegistration(outcome string) {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(outcome string) {}

// IncPasswordReset is a no-op.
func (n *NoopRecorder) IncPasswordReset(outcome string) {}

// ObservePlatformCall is a no-op.
func (n *NoopRecorder) ObservePlatformCall(op string, duration time.Duration) {}

// IncAuditEventPublished is a no-op.
func (n *NoopRecorder) IncAuditEventPublished(status string) {}

// IncAuditEventProcessed is a no-op.
func (n *NoopRecorder) IncAuditEventProcessed(status string) {}

// ObserveAuditBatchSize is a no-op.
func (n *NoopRecorder) ObserveAuditBatchSize(size int) {}

// SetAuditQueueDepth is a no-op.
func (n *NoopRecorder) SetAuditQueueDepth(depth int64) {}
