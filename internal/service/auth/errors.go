package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidCredentials is the single failure signal for login: it covers
	// both unknown-username and wrong-password so callers cannot tell which
	// occurred.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken indicates the token format is invalid or the signature
	// doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = errors.New("authentication token is missing")
)
