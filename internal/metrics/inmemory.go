package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Registrations        map[string]uint64
	Logins               map[string]uint64
	PasswordResets       map[string]uint64
	PlatformCallCount    uint64
	PlatformCallTotalNs  int64
	AuditEventsPublished map[string]uint64
	AuditEventsProcessed map[string]uint64
	AuditQueueDepth      int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu                   sync.Mutex
	registrations        map[string]uint64
	logins               map[string]uint64
	passwordResets       map[string]uint64
	platformCallCount    uint64
	platformCallTotalNs  int64
	auditEventsPublished map[string]uint64
	auditEventsProcessed map[string]uint64
	auditQueueDepth      int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		registrations:        make(map[string]uint64),
		logins:               make(map[string]uint64),
		passwordResets:       make(map[string]uint64),
		auditEventsPublished: make(map[string]uint64),
		auditEventsProcessed: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Registrations:        copyCounts(m.registrations),
		Logins:               copyCounts(m.logins),
		PasswordResets:       copyCounts(m.passwordResets),
		PlatformCallCount:    m.platformCallCount,
		PlatformCallTotalNs:  m.platformCallTotalNs,
		AuditEventsPublished: copyCounts(m.auditEventsPublished),
		AuditEventsProcessed: copyCounts(m.auditEventsProcessed),
		AuditQueueDepth:      m.auditQueueDepth,
	}
}

// IncRegistration increments the registration counter for an outcome.
func (m *InMemoryRecorder) IncRegistration(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations[outcome]++
}

// IncLogin increments the login counter for an outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins[outcome]++
}

// IncPasswordReset increments the reset counter for an outcome.
func (m *InMemoryRecorder) IncPasswordReset(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passwordResets[outcome]++
}

// ObservePlatformCall records a platform call duration.
func (m *InMemoryRecorder) ObservePlatformCall(op string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.platformCallCount++
	m.platformCallTotalNs += duration.Nanoseconds()
}

// IncAuditEventPublished increments the publish counter for a status.
func (m *InMemoryRecorder) IncAuditEventPublished(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditEventsPublished[status]++
}

// IncAuditEventProcessed increments the processed counter for a status.
func (m *InMemoryRecorder) IncAuditEventProcessed(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditEventsProcessed[status]++
}

// ObserveAuditBatchSize records an audit batch size. Only the count is
// retained; sizes are not bucketed in the in-memory recorder.
func (m *InMemoryRecorder) ObserveAuditBatchSize(size int) {}

// SetAuditQueueDepth records the current audit queue depth.
func (m *InMemoryRecorder) SetAuditQueueDepth(depth int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auditQueueDepth = depth
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
