package audit

import (
	"testing"
	"time"

	"github.com/tradegate/tradegate/internal/model"
)

func TestValidateEventPayload(t *testing.T) {
	valid := EventPayload{
		Kind:      model.AuthEventRegister,
		Outcome:   model.OutcomeSuccess,
		EmailHash: "0123456789abcdef",
		At:        time.Now().UnixMilli(),
	}

	if err := ValidateEventPayload(valid); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	cases := []struct {
		name    string
		payload EventPayload
	}{
		{"missing_kind", EventPayload{Outcome: model.OutcomeSuccess, EmailHash: "0123456789abcdef", At: 1}},
		{"unknown_kind", EventPayload{Kind: "signup", Outcome: model.OutcomeSuccess, EmailHash: "0123456789abcdef", At: 1}},
		{"missing_outcome", EventPayload{Kind: model.AuthEventLogin, EmailHash: "0123456789abcdef", At: 1}},
		{"unknown_outcome", EventPayload{Kind: model.AuthEventLogin, Outcome: "maybe", EmailHash: "0123456789abcdef", At: 1}},
		{"missing_email_hash", EventPayload{Kind: model.AuthEventLogin, Outcome: model.OutcomeSuccess, At: 1}},
		{"short_email_hash", EventPayload{Kind: model.AuthEventLogin, Outcome: model.OutcomeSuccess, EmailHash: "abcdef", At: 1}},
		{"non_hex_email_hash", EventPayload{Kind: model.AuthEventLogin, Outcome: model.OutcomeSuccess, EmailHash: "not-hex-not-hex!", At: 1}},
		{"missing_timestamp", EventPayload{Kind: model.AuthEventLogin, Outcome: model.OutcomeSuccess, EmailHash: "0123456789abcdef"}},
	}

	for _, tc := range cases {
		if err := ValidateEventPayload(tc.payload); err == nil {
			t.Fatalf("expected error for %s", tc.name)
		}
	}
}

func TestHashEmail_Properties(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	h := HashEmail("user@example.com", at)
	if len(h) != 16 {
		t.Fatalf("hash should be 16 chars, got %d", len(h))
	}
	if !isHex(h) {
		t.Fatalf("hash should be hex, got %q", h)
	}

	// Deterministic within a day, regardless of the time of day.
	sameDay := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	if HashEmail("user@example.com", sameDay) != h {
		t.Error("same email on the same day should hash identically")
	}

	// The salt rotates at midnight UTC, so hashes cannot be joined
	// across days.
	nextDay := at.Add(24 * time.Hour)
	if HashEmail("user@example.com", nextDay) == h {
		t.Error("same email on different days should hash differently")
	}

	if HashEmail("other@example.com", at) == h {
		t.Error("different emails should hash differently")
	}

	// Hashes produced here must pass payload validation.
	payload := EventPayload{
		Kind:      model.AuthEventReset,
		Outcome:   model.OutcomeRejected,
		EmailHash: h,
		At:        at.UnixMilli(),
	}
	if err := ValidateEventPayload(payload); err != nil {
		t.Fatalf("HashEmail output should validate, got %v", err)
	}
}
