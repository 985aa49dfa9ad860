// Package model defines domain entities for the application.
package model

import "time"

// Auth event kinds.
const (
	AuthEventRegister = "register"
	AuthEventLogin    = "login"
	AuthEventReset    = "reset"
)

// Auth event outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeRejected      = "rejected"       // input validation failed
	OutcomeConflict      = "conflict"       // local uniqueness violation
	OutcomeUpstreamError = "upstream_error" // platform reported failure
	OutcomeUnavailable   = "unavailable"    // platform unreachable
)

// AuthEvent is one audit record of an authentication attempt.
type AuthEvent struct {
	ID      string `json:"id"`       // ULID (time-sortable)
	EventID string `json:"event_id"` // Idempotency key (Redis stream ID)

	Kind    string `json:"kind"`    // register | login | reset
	Outcome string `json:"outcome"` // see Outcome* constants

	// Privacy-safe subject identification; raw emails never enter the
	// audit trail.
	EmailHash string `json:"email_hash"` // SHA256(email + daily_salt)[0:16]

	OccurredAt time.Time `json:"occurred_at"` // Event timestamp
	CreatedAt  time.Time `json:"created_at"`  // DB insertion time
}
