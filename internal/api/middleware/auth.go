package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkhq/inkwell-api/internal/api/shared"
	"github.com/inkhq/inkwell-api/internal/service"
	"github.com/inkhq/inkwell-api/internal/service/auth"
)

// AuthMiddleware provides token authentication for routes. It verifies the
// bearer token and puts the resulting Actor (subject ID plus admin claim,
// computed exactly once) on the request context.
type AuthMiddleware struct {
	credentials auth.CredentialService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(credentials auth.CredentialService) *AuthMiddleware {
	return &AuthMiddleware{credentials: credentials}
}

// Authenticate validates the token from the Authorization header and adds
// the actor to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.credentials.VerifyToken(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", err)
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		actor := service.Actor{
			UserID: claims.UserID,
			Admin:  claims.Admin,
		}
		ctx := context.WithValue(r.Context(), shared.ActorContextKey, actor)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor extracts the authenticated actor from the request context.
// Returns the actor and a boolean indicating if it was found.
func GetActor(r *http.Request) (service.Actor, bool) {
	actor, ok := r.Context().Value(shared.ActorContextKey).(service.Actor)
	return actor, ok
}
