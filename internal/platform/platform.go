package platform

import (
	"context"
	"net/url"
)

// Platform operation names. These are path segments on the platform
// base URL; the contract is fixed by the upstream.
const (
	opEmailUnique      = "EmailUnique"
	opRegisterUser     = "RegisterUser"
	opActivation       = "Activation"
	opLoginUser        = "LoginUser"
	opRecoveryPassword = "RecoveryPassword"
)

// Registration carries the fields forwarded to the platform when
// opening an account. The local phone number is deliberately absent;
// the platform does not receive it.
type Registration struct {
	Email          string
	Password       string
	PasswordRepeat string
	FirstName      string
	LastName       string
}

// CheckEmailUnique asks the platform whether an email is already
// registered there. A non-success result (email taken, malformed
// email, ...) is returned as a *ResultError with the upstream
// description attached.
func (c *Client) CheckEmailUnique(ctx context.Context, email string) (*Result, error) {
	key, err := newAccessKey(c.apiKey)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	key.apply(params)
	params.Set("email", email)

	return c.get(ctx, opEmailUnique, params)
}

// RegisterAccount opens a platform account. The protocol is two-step:
// RegisterUser returns an activation key and type, which are then
// confirmed via Activation. Both steps share one access key pair and
// both must report success; the first failure is decisive.
func (c *Client) RegisterAccount(ctx context.Context, reg Registration) (*Result, error) {
	key, err := newAccessKey(c.apiKey)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	key.apply(form)
	form.Set("login", reg.Email)
	form.Set("password", reg.Password)
	form.Set("password_repeat", reg.PasswordRepeat)
	form.Set("first_name", reg.FirstName)
	form.Set("last_name", reg.LastName)
	form.Set("email", reg.Email)

	res, err := c.postForm(ctx, opRegisterUser, form)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	key.apply(params)
	params.Set("activation_key", res.Value("activation_key"))
	params.Set("activation_type", res.Value("activation_type"))

	return c.get(ctx, opActivation, params)
}

// Authenticate verifies credentials against the platform. On success
// the result carries values.auth_token, usable to build the
// auto-login redirect.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*Result, error) {
	key, err := newAccessKey(c.apiKey)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	key.apply(form)
	form.Set("email", email)
	form.Set("password", password)

	return c.postForm(ctx, opLoginUser, form)
}

// RequestPasswordRecovery triggers the platform's out-of-band recovery
// email for the given address.
func (c *Client) RequestPasswordRecovery(ctx context.Context, email string) (*Result, error) {
	key, err := newAccessKey(c.apiKey)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	key.apply(params)
	params.Set("email", email)

	return c.get(ctx, opRecoveryPassword, params)
}
