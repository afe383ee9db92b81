package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkhq/inkwell-api/internal/api/shared"
	"github.com/inkhq/inkwell-api/internal/service"
	"github.com/inkhq/inkwell-api/internal/service/auth"
	"github.com/inkhq/inkwell-api/internal/store"
)

// HandleServiceError maps a service-layer error to the response contract:
// validation failures carry the complete violation list as a client error,
// absent entities (and unauthorized mutations, which the services already
// collapse into not-found) are 404, duplicates are conflicts, credential
// mismatches are an indistinct 401, and everything else is a generic
// server error with the details kept in the logs.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := service.IsValidationError(err); ok {
		shared.RespondWithViolations(w, r, ve.Violations)
		return
	}

	switch {
	case errors.Is(err, service.ErrAuthorNotFound):
		shared.RespondWithError(w, r, http.StatusBadRequest, "Author does not exist")
	case store.IsNotFoundError(err):
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrUsernameExists):
		shared.RespondWithError(w, r, http.StatusConflict, "Username already exists")
	case errors.Is(err, store.ErrEmailExists):
		shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
	case store.IsDuplicateError(err):
		shared.RespondWithError(w, r, http.StatusConflict, "Already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
	default:
		slog.Error("unexpected service error",
			"error", err,
			"path", r.URL.Path,
			"method", r.Method)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
