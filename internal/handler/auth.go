package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tradegate/tradegate/internal/handler/dto"
	"github.com/tradegate/tradegate/internal/platform"
	"github.com/tradegate/tradegate/internal/service"
)

// AuthHandler exposes the registration, login, and password-reset
// orchestrations over HTTP.
type AuthHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/v1/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Failure("invalid request body"))
		return
	}

	out, err := h.svc.Register(r.Context(), service.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		PasswordRepeat: req.PasswordRepeat,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Country:        req.Country,
		Phone:          req.Phone,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("registration completed", "email", req.Email)

	writeJSON(w, http.StatusCreated, dto.Success(dto.RedirectData{
		RedirectURL: out.RedirectURL,
	}))
}

// Login handles POST /api/v1/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Failure("invalid request body"))
		return
	}

	out, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Language: req.Language,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success(dto.RedirectData{
		RedirectURL: out.RedirectURL,
	}))
}

// ResetPassword handles POST /api/v1/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Failure("invalid request body"))
		return
	}

	out, err := h.svc.ResetPassword(r.Context(), req.UserEmail)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Success(dto.MessageData{
		Message: out.Message,
	}))
}

// handleServiceError maps orchestration errors to HTTP responses.
// The taxonomy: validation and local conflicts are 400 with a plain
// message, upstream-reported failures are 400 forwarding the platform
// payload, transport-level failures are 502.
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	var resultErr *platform.ResultError

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, dto.Failure(validationErr.Message))
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrPhoneTaken),
		errors.Is(err, service.ErrConflict):
		writeJSON(w, http.StatusBadRequest, dto.Failure(err.Error()))
	case errors.As(err, &resultErr):
		writeJSON(w, http.StatusBadRequest, dto.Failure(dto.UpstreamFailure{
			Description: resultErr.Result.Description,
			Errors:      resultErr.Result.Errors,
			ErrorNumber: resultErr.Result.ErrorNumber,
		}))
	case errors.Is(err, platform.ErrUnavailable):
		writeJSON(w, http.StatusBadGateway, dto.Failure("trading platform unavailable"))
	default:
		h.logger.Error("internal_error", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.Failure("an internal error occurred"))
	}
}
