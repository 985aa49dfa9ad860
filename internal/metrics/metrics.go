// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Endpoint outcomes. outcome is one of "success", "rejected",
	// "conflict", "upstream_error", "unavailable".
	IncRegistration(outcome string)
	IncLogin(outcome string)
	IncPasswordReset(outcome string)

	// Platform call instrumentation. op is the platform operation
	// name (EmailUnique, RegisterUser, ...).
	ObservePlatformCall(op string, duration time.Duration)

	// Audit pipeline metrics
	IncAuditEventPublished(status string) // status: "success" or "dropped"
	IncAuditEventProcessed(status string) // status: "success", "failed", "dead_lettered"
	ObserveAuditBatchSize(size int)
	SetAuditQueueDepth(depth int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
