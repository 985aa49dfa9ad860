// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tradegate/tradegate/internal/audit"
	"github.com/tradegate/tradegate/internal/auth"
	"github.com/tradegate/tradegate/internal/metrics"
	"github.com/tradegate/tradegate/internal/model"
	"github.com/tradegate/tradegate/internal/platform"
	"github.com/tradegate/tradegate/internal/repository"
)

// Service errors for local uniqueness conflicts.
var (
	ErrEmailTaken = errors.New("email already registered")
	ErrPhoneTaken = errors.New("phone number already registered")
	ErrConflict   = errors.New("account conflicts with an existing record")
)

// ValidationError describes rejected input. The message is safe to
// return to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 8

// PlatformClient is the slice of the platform API the orchestrators
// use. Kept as an interface so tests can substitute a fake upstream.
type PlatformClient interface {
	CheckEmailUnique(ctx context.Context, email string) (*platform.Result, error)
	RegisterAccount(ctx context.Context, reg platform.Registration) (*platform.Result, error)
	Authenticate(ctx context.Context, email, password string) (*platform.Result, error)
	RequestPasswordRecovery(ctx context.Context, email string) (*platform.Result, error)
}

// UserStore persists local user records.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
}

// EventPublisher receives audit events; publishing must never block
// or fail the request.
type EventPublisher interface {
	PublishAsync(event audit.EventPayload)
}

// Config carries the redirect targets the orchestrators compose
// responses from.
type Config struct {
	// SignupRedirectURL is where the front-end sends the user after a
	// successful registration (the login form).
	SignupRedirectURL string
	// LoginRedirectFormat is the auto-login URL template with three
	// positional %s verbs: auth token, email, language tag.
	LoginRedirectFormat string
}

// AccountService orchestrates registration, login, and password reset
// against the trading platform and the local store.
type AccountService struct {
	cfg      Config
	platform PlatformClient
	store    UserStore
	events   EventPublisher
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewAccountService creates a new AccountService. events may be nil
// when the audit pipeline is disabled.
func NewAccountService(cfg Config, client PlatformClient, store UserStore, events EventPublisher, logger *slog.Logger, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		cfg:      cfg,
		platform: client,
		store:    store,
		events:   events,
		logger:   logger,
		metrics:  recorder,
	}
}

// RegisterInput defines input for registration.
type RegisterInput struct {
	Email          string
	Password       string
	PasswordRepeat string
	FirstName      string
	LastName       string
	Country        string
	Phone          string
}

// RegisterOutput is the success payload for registration.
type RegisterOutput struct {
	RedirectURL string
}

// Register runs the registration sequence: platform uniqueness check,
// two-step platform registration, then local persistence.
//
// The sequence is deliberately not compensating: once the platform
// account exists, a failure to persist the local row leaves that
// account in place. There is no rollback call and no reconciliation
// job; the local store's unique constraints are the only guard against
// repeats.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	now := time.Now()

	if err := validateRegisterInput(input); err != nil {
		s.record(model.AuthEventRegister, model.OutcomeRejected, input.Email, now)
		return nil, err
	}

	if _, err := s.platform.CheckEmailUnique(ctx, input.Email); err != nil {
		s.record(model.AuthEventRegister, outcomeForPlatformError(err), input.Email, now)
		return nil, err
	}

	if _, err := s.platform.RegisterAccount(ctx, platform.Registration{
		Email:          input.Email,
		Password:       input.Password,
		PasswordRepeat: input.PasswordRepeat,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
	}); err != nil {
		s.record(model.AuthEventRegister, outcomeForPlatformError(err), input.Email, now)
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Country:      input.Country,
		Phone:        input.Phone,
		CreatedAt:    now.UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		// The platform account created above stays in place.
		if conflictErr := mapConflict(err); conflictErr != nil {
			s.logger.Warn("local persistence conflict after platform registration",
				"error", conflictErr,
			)
			s.record(model.AuthEventRegister, model.OutcomeConflict, input.Email, now)
			return nil, conflictErr
		}
		return nil, fmt.Errorf("persist user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	s.record(model.AuthEventRegister, model.OutcomeSuccess, input.Email, now)

	return &RegisterOutput{RedirectURL: s.cfg.SignupRedirectURL}, nil
}

// LoginInput defines input for login.
type LoginInput struct {
	Email    string
	Password string
	Language string
}

// LoginOutput is the success payload for login.
type LoginOutput struct {
	RedirectURL string
}

// Login authenticates against the platform and composes the
// auto-login redirect from the returned token.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	now := time.Now()

	if err := validateLoginInput(input); err != nil {
		s.record(model.AuthEventLogin, model.OutcomeRejected, input.Email, now)
		return nil, err
	}

	lang := input.Language
	if lang == "" {
		lang = "en"
	}

	res, err := s.platform.Authenticate(ctx, input.Email, input.Password)
	if err != nil {
		s.record(model.AuthEventLogin, outcomeForPlatformError(err), input.Email, now)
		return nil, err
	}

	token := res.Value("auth_token")
	if token == "" {
		// A success result without a token is not actionable; fail
		// closed rather than redirect to a broken URL.
		s.record(model.AuthEventLogin, model.OutcomeUnavailable, input.Email, now)
		return nil, fmt.Errorf("platform login: auth token missing: %w", platform.ErrUnavailable)
	}

	redirect := fmt.Sprintf(s.cfg.LoginRedirectFormat,
		url.QueryEscape(token),
		url.QueryEscape(input.Email),
		url.QueryEscape(lang),
	)

	s.record(model.AuthEventLogin, model.OutcomeSuccess, input.Email, now)

	return &LoginOutput{RedirectURL: redirect}, nil
}

// ResetOutput is the success payload for password reset.
type ResetOutput struct {
	// Message is the upstream response body, unmodified.
	Message string
}

// ResetPassword asks the platform to send its recovery email.
func (s *AccountService) ResetPassword(ctx context.Context, email string) (*ResetOutput, error) {
	now := time.Now()

	if !emailRegex.MatchString(email) {
		s.record(model.AuthEventReset, model.OutcomeRejected, email, now)
		return nil, invalid("user_email must be a valid email address")
	}

	res, err := s.platform.RequestPasswordRecovery(ctx, email)
	if err != nil {
		s.record(model.AuthEventReset, outcomeForPlatformError(err), email, now)
		return nil, err
	}

	s.record(model.AuthEventReset, model.OutcomeSuccess, email, now)

	return &ResetOutput{Message: string(res.Raw())}, nil
}

// record updates the outcome counters and, when auditing is enabled,
// publishes the event fire-and-forget.
func (s *AccountService) record(kind, outcome, email string, at time.Time) {
	switch kind {
	case model.AuthEventRegister:
		s.metrics.IncRegistration(outcome)
	case model.AuthEventLogin:
		s.metrics.IncLogin(outcome)
	case model.AuthEventReset:
		s.metrics.IncPasswordReset(outcome)
	}

	if s.events == nil {
		return
	}
	s.events.PublishAsync(audit.EventPayload{
		Kind:      kind,
		Outcome:   outcome,
		EmailHash: audit.HashEmail(email, at),
		At:        at.UnixMilli(),
	})
}

// outcomeForPlatformError classifies a platform client error for
// metrics and audit.
func outcomeForPlatformError(err error) string {
	var resErr *platform.ResultError
	if errors.As(err, &resErr) {
		return model.OutcomeUpstreamError
	}
	if errors.Is(err, platform.ErrUnavailable) {
		return model.OutcomeUnavailable
	}
	return model.OutcomeUnavailable
}

// mapConflict translates repository uniqueness errors into service
// errors; returns nil for anything else.
func mapConflict(err error) error {
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrPhoneExists):
		return ErrPhoneTaken
	case errors.Is(err, repository.ErrUniqueViolation):
		return ErrConflict
	default:
		return nil
	}
}

func validateRegisterInput(input RegisterInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"email", input.Email},
		{"password", input.Password},
		{"password_repeat", input.PasswordRepeat},
		{"first_name", input.FirstName},
		{"last_name", input.LastName},
		{"country", input.Country},
		{"phone", input.Phone},
	}
	for _, field := range required {
		if field.value == "" {
			return invalid("%s is required", field.name)
		}
	}

	if !emailRegex.MatchString(input.Email) {
		return invalid("email must be a valid email address")
	}
	if len(input.Password) < minPasswordLength {
		return invalid("password must be at least %d characters", minPasswordLength)
	}
	if input.Password != input.PasswordRepeat {
		return invalid("passwords do not match")
	}

	return nil
}

func validateLoginInput(input LoginInput) error {
	if input.Email == "" || input.Password == "" {
		return invalid("email and password are required")
	}
	if !emailRegex.MatchString(input.Email) {
		return invalid("email must be a valid email address")
	}
	return nil
}
