package platform

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks transport-level failures: network errors,
// timeouts, non-2xx responses, and bodies that do not parse against
// the platform envelope. Callers map it to 502.
var ErrUnavailable = errors.New("trading platform unavailable")

// ResultError is an upstream-reported failure: the platform answered
// with a well-formed envelope whose result is not "success". Callers
// forward the payload to the client verbatim with a 400.
type ResultError struct {
	Op     string  // platform operation, e.g. "RegisterUser"
	Result *Result // parsed envelope, never nil
}

func (e *ResultError) Error() string {
	if e.Result.Description != "" {
		return fmt.Sprintf("platform %s: %s", e.Op, e.Result.Description)
	}
	return fmt.Sprintf("platform %s: result %q", e.Op, e.Result.Result)
}
