package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventreport/backend/pkg/httpx"
	"github.com/eventreport/backend/pkg/logger"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler returns a handler over the given service.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log.With(logger.Component("auth"))}
}

// Routes mounts the auth endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/forgot-password", h.forgotPassword)
	r.Post("/reset-password", h.resetPassword)
	r.With(h.svc.RequireUser).Get("/me", h.me)
	return r
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := httpx.BindJSON(r, &in); err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}

	id, err := h.svc.Register(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpx.Error(w, httpx.BadRequest("Email already registered"))
			return
		}
		if isValidationError(err) {
			httpx.Error(w, httpx.BadRequest(err.Error()))
			return
		}
		h.log.ErrorContext(r.Context(), "failed to register user", logger.Error(err))
		httpx.Error(w, httpx.ErrInternal)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]string{
		"message": "User created successfully",
		"id":      id,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := httpx.BindJSON(r, &in); err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}

	token, err := h.svc.Login(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.Error(w, httpx.BadRequest(ErrInvalidCredentials.Error()))
			return
		}
		h.log.ErrorContext(r.Context(), "login failed", logger.Error(err))
		httpx.Error(w, httpx.ErrInternal)
		return
	}

	httpx.JSON(w, http.StatusOK, token)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		httpx.Error(w, httpx.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(u))
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var in ForgotPasswordInput
	if err := httpx.BindJSON(r, &in); err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), in); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httpx.Error(w, httpx.NotFound(ErrUserNotFound.Error()))
			return
		}
		h.log.ErrorContext(r.Context(), "failed to start password reset", logger.Error(err))
		httpx.Error(w, httpx.ErrInternal)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Reset code sent to email"})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var in ResetPasswordInput
	if err := httpx.BindJSON(r, &in); err != nil {
		httpx.Error(w, httpx.BadRequest(err.Error()))
		return
	}

	if err := h.svc.ResetPassword(r.Context(), in); err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			httpx.Error(w, httpx.NotFound(ErrUserNotFound.Error()))
		case errors.Is(err, ErrInvalidResetCode), errors.Is(err, ErrResetCodeExpired), isValidationError(err):
			httpx.Error(w, httpx.BadRequest(err.Error()))
		default:
			h.log.ErrorContext(r.Context(), "failed to reset password", logger.Error(err))
			httpx.Error(w, httpx.ErrInternal)
		}
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func isValidationError(err error) bool {
	for _, e := range []error{
		ErrFirstNameRequired, ErrLastNameRequired, ErrInvalidEmail, ErrPhoneRequired,
		ErrPasswordTooShort, ErrPasswordNoUppercase, ErrPasswordNoDigit, ErrPasswordNoSpecial,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
