package api

import (
	"log/slog"
	"net/http"

	"github.com/inkhq/inkwell-api/internal/api/shared"
	"github.com/inkhq/inkwell-api/internal/service"
)

// AccountHandler handles user account API requests.
type AccountHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler with the given dependencies.
func NewAccountHandler(accounts service.AccountService, log *slog.Logger) *AccountHandler {
	if log == nil {
		log = slog.Default()
	}

	return &AccountHandler{
		accounts: accounts,
		logger:   log.With("component", "account_handler"),
	}
}

// Create handles POST /users (public registration).
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := h.accounts.Create(r.Context(), service.CreateAccountInput{
		Username:    req.Username,
		Email:       req.Email,
		Preferences: req.Preferences,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewUserResponse(user, h.accounts.IsAdmin(user)))
}

// Get handles GET /users/{id}. Users may read themselves; administrators
// may read anyone.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if actor.UserID != id && !actor.Admin {
		// Not-found rather than forbidden, to avoid confirming existence.
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
		return
	}

	user, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user, h.accounts.IsAdmin(user)))
}

// List handles GET /users (administrators only).
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if !actor.Admin {
		shared.RespondWithError(w, r, http.StatusForbidden, "Administrator role required")
		return
	}

	users, err := h.accounts.GetAll(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, NewUserResponse(user, h.accounts.IsAdmin(user)))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Update handles PUT /users/{id}. Users may update themselves;
// administrators may update anyone.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if actor.UserID != id && !actor.Admin {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
		return
	}

	var req UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	user, err := h.accounts.Update(r.Context(), id, service.UpdateAccountInput{
		Email:       req.Email,
		Preferences: req.Preferences,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user, h.accounts.IsAdmin(user)))
}

// Delete handles DELETE /users/{id}. Users may delete themselves;
// administrators may delete anyone.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if actor.UserID != id && !actor.Admin {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
		return
	}

	if err := h.accounts.Delete(r.Context(), id); err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /users/export.csv (administrators only).
func (h *AccountHandler) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if !actor.Admin {
		shared.RespondWithError(w, r, http.StatusForbidden, "Administrator role required")
		return
	}

	data, err := h.accounts.ExportAll(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="accounts.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write export response", "error", err)
	}
}
