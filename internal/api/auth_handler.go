package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/inkhq/inkwell-api/internal/api/shared"
	"github.com/inkhq/inkwell-api/internal/service"
	"github.com/inkhq/inkwell-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	credentials auth.CredentialService
	accounts    service.AccountService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	credentials auth.CredentialService,
	accounts service.AccountService,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}

	return &AuthHandler{
		credentials: credentials,
		accounts:    accounts,
		validator:   validator.New(),
		logger:      log.With("component", "auth_handler"),
	}
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.credentials.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	token, err := h.credentials.IssueToken(r.Context(), user)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err, "user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID: user.ID,
		Token:  token,
	})
}

// SetPassword handles the /auth/set-password endpoint, covering both
// first-time setup and forgot-password flows.
func (h *AuthHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req SetPasswordRequest

	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Token, password and confirmation are required")
		return
	}

	ok, err := h.accounts.SetPassword(r.Context(), req.Token, req.Password, req.ConfirmPassword)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	if !ok {
		// Unknown or expired token: a normal negative outcome.
		shared.RespondWithError(w, r, http.StatusNotFound, "Invalid or expired token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
