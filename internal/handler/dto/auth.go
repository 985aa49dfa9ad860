// Package dto defines request and response shapes for the HTTP API.
package dto

import "encoding/json"

// RegisterRequest is the body of POST /api/v1/register.
type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	PasswordRepeat string `json:"password_repeat"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Country        string `json:"country"`
	Phone          string `json:"phone"`
}

// LoginRequest is the body of POST /api/v1/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Language string `json:"language"`
}

// ResetPasswordRequest is the body of POST /api/v1/reset-password.
type ResetPasswordRequest struct {
	UserEmail string `json:"user_email"`
}

// Envelope is the uniform response wrapper: {status, data} on success,
// {status, detail} on failure.
type Envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Detail any    `json:"detail,omitempty"`
}

// Success wraps a payload in a success envelope.
func Success(data any) Envelope {
	return Envelope{Status: "success", Data: data}
}

// Failure wraps a detail in an error envelope.
func Failure(detail any) Envelope {
	return Envelope{Status: "error", Detail: detail}
}

// RedirectData carries the redirect target returned by register and
// login.
type RedirectData struct {
	RedirectURL string `json:"redirect_url"`
}

// MessageData carries the upstream message returned by reset-password.
type MessageData struct {
	Message string `json:"message"`
}

// UpstreamFailure forwards a platform-reported failure payload
// verbatim.
type UpstreamFailure struct {
	Description string          `json:"description,omitempty"`
	Errors      json.RawMessage `json:"errors,omitempty"`
	ErrorNumber int             `json:"error_number,omitempty"`
}
