package platform

import (
	"testing"
)

func TestParseResult_Success(t *testing.T) {
	t.Parallel()

	body := []byte(`{"result":"success","values":{"auth_token":"tok-1"}}`)

	res, ok := ParseResult(body)
	if !ok {
		t.Fatal("expected body to parse")
	}
	if !res.Success() {
		t.Error("expected success result")
	}
	if res.Value("auth_token") != "tok-1" {
		t.Errorf("unexpected auth_token: %q", res.Value("auth_token"))
	}
	if string(res.Raw()) != string(body) {
		t.Error("Raw should return the original body unmodified")
	}
}

func TestParseResult_MissingResultField(t *testing.T) {
	t.Parallel()

	if _, ok := ParseResult([]byte(`{"values":{"a":"b"}}`)); ok {
		t.Error("body without a result field should be rejected")
	}
}

func TestParseResult_MalformedJSON(t *testing.T) {
	t.Parallel()

	if _, ok := ParseResult([]byte(`<html>gateway error</html>`)); ok {
		t.Error("non-JSON body should be rejected")
	}
}

func TestResult_Value_NumericCoercion(t *testing.T) {
	t.Parallel()

	// activation_type in particular comes back as a bare number.
	res, ok := ParseResult([]byte(`{"result":"success","values":{"activation_type":2,"activation_key":"k1","nested":{"x":1}}}`))
	if !ok {
		t.Fatal("expected body to parse")
	}

	if got := res.Value("activation_type"); got != "2" {
		t.Errorf("numeric value = %q, want \"2\"", got)
	}
	if got := res.Value("activation_key"); got != "k1" {
		t.Errorf("string value = %q, want \"k1\"", got)
	}
	if got := res.Value("nested"); got != "" {
		t.Errorf("non-scalar value should be empty, got %q", got)
	}
	if got := res.Value("absent"); got != "" {
		t.Errorf("absent value should be empty, got %q", got)
	}
}

func TestResult_FailureEnvelope(t *testing.T) {
	t.Parallel()

	res, ok := ParseResult([]byte(`{"result":"error","description":"email exists","errors":{"email":["taken"]},"error_number":1001}`))
	if !ok {
		t.Fatal("expected body to parse")
	}
	if res.Success() {
		t.Error("expected non-success result")
	}
	if res.Description != "email exists" {
		t.Errorf("unexpected description: %q", res.Description)
	}
	if res.ErrorNumber != 1001 {
		t.Errorf("unexpected error_number: %d", res.ErrorNumber)
	}
	if len(res.Errors) == 0 {
		t.Error("errors payload should be retained")
	}
}
