package platform

import (
	"encoding/json"
	"strconv"
)

// Result is the platform response envelope. The platform reports
// success through result == "success"; on failure it may attach a
// human-readable description, a structured errors payload, and a
// numeric error code. Two-step operations return step data in values.
type Result struct {
	Result      string          `json:"result"`
	Description string          `json:"description,omitempty"`
	Errors      json.RawMessage `json:"errors,omitempty"`
	ErrorNumber int             `json:"error_number,omitempty"`
	Values      map[string]any  `json:"values,omitempty"`

	raw []byte
}

// Success reports whether the platform accepted the operation.
func (r *Result) Success() bool {
	return r.Result == "success"
}

// Value returns the named entry from values as a string. Numeric
// values are formatted; anything else yields the empty string. The
// platform is loose about number-vs-string here (activation_type in
// particular), so both are accepted.
func (r *Result) Value(key string) string {
	v, ok := r.Values[key]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// Raw returns the unmodified response body the envelope was parsed
// from.
func (r *Result) Raw() []byte {
	return r.raw
}

// ParseResult decodes a response body against the envelope schema.
// A body that does not decode, or decodes without a result field, is
// rejected; the client treats that as the upstream being unavailable.
func ParseResult(body []byte) (*Result, bool) {
	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, false
	}
	if res.Result == "" {
		return nil, false
	}
	res.raw = body
	return &res, true
}
