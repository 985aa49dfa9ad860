package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/tradegate/tradegate/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Snapshot returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeLabeledCounts(w, "tradegate_registrations_total", "outcome", snap.Registrations)
	writeLabeledCounts(w, "tradegate_logins_total", "outcome", snap.Logins)
	writeLabeledCounts(w, "tradegate_password_resets_total", "outcome", snap.PasswordResets)

	writeMetric(w, "tradegate_platform_calls_total %d\n", snap.PlatformCallCount)
	writeMetric(w, "tradegate_platform_call_duration_seconds_sum %.6f\n", float64(snap.PlatformCallTotalNs)/1e9)

	writeLabeledCounts(w, "tradegate_audit_events_published_total", "status", snap.AuditEventsPublished)
	writeLabeledCounts(w, "tradegate_audit_events_processed_total", "status", snap.AuditEventsProcessed)
	writeMetric(w, "tradegate_audit_queue_depth %d\n", snap.AuditQueueDepth)
}

// writeLabeledCounts emits one sample per label value, in sorted order
// so output is stable for scraping and tests.
func writeLabeledCounts(w http.ResponseWriter, name, label string, counts map[string]uint64) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		writeMetric(w, "%s{%s=%q} %d\n", name, label, k, counts[k])
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
