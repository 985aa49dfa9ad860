package audit

import (
	"fmt"

	"github.com/tradegate/tradegate/internal/model"
)

const emailHashLength = 16

var validKinds = map[string]bool{
	model.AuthEventRegister: true,
	model.AuthEventLogin:    true,
	model.AuthEventReset:    true,
}

var validOutcomes = map[string]bool{
	model.OutcomeSuccess:       true,
	model.OutcomeRejected:      true,
	model.OutcomeConflict:      true,
	model.OutcomeUpstreamError: true,
	model.OutcomeUnavailable:   true,
}

// ValidateEventPayload validates auth event payload fields before
// they are persisted. Anything that fails here is a poison message.
func ValidateEventPayload(payload EventPayload) error {
	if !validKinds[payload.Kind] {
		return fmt.Errorf("unknown event kind %q", payload.Kind)
	}
	if !validOutcomes[payload.Outcome] {
		return fmt.Errorf("unknown outcome %q", payload.Outcome)
	}
	if len(payload.EmailHash) != emailHashLength || !isHex(payload.EmailHash) {
		return fmt.Errorf("email_hash must be %d hex chars", emailHashLength)
	}
	if payload.At <= 0 {
		return fmt.Errorf("event timestamp must be set")
	}
	return nil
}

func isHex(value string) bool {
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F') {
			continue
		}
		return false
	}
	return true
}
