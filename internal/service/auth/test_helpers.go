package auth

import (
	"time"

	"github.com/inkhq/inkwell-api/internal/config"
)

// NewTestTokenService creates a TokenService with an injectable clock for
// deterministic tests. Panics on an invalid secret so test setup failures
// surface immediately.
func NewTestTokenService(
	secret string,
	lifetime time.Duration,
	policy RolePolicy,
	timeFunc func() time.Time,
) TokenService {
	svc, err := NewTokenService(config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: int(lifetime / time.Minute),
	}, policy)
	if err != nil {
		panic(err)
	}

	hmacSvc := svc.(*hmacTokenService)
	if timeFunc != nil {
		hmacSvc.timeFunc = timeFunc
	}
	return hmacSvc
}
