package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkhq/inkwell-api/internal/domain"
	"github.com/inkhq/inkwell-api/internal/store"
)

// ResetTokenTTL is the validity window of a password-reset token, used
// both for new-account setup and forgot-password flows.
const ResetTokenTTL = 24 * time.Hour

// resetTokenBytes is the entropy of a reset token (256 bits).
const resetTokenBytes = 32

// CredentialService manages the credential lifecycle: login verification,
// session token issuance, and password-reset token generation/consumption.
type CredentialService interface {
	// Authenticate looks up the user by username and verifies the password.
	// Unknown usernames, accounts without a password, and wrong passwords all
	// collapse to ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// IssueToken produces a signed session token for the user.
	IssueToken(ctx context.Context, user *domain.User) (string, error)

	// VerifyToken validates a session token and returns its claims.
	VerifyToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateResetToken produces a cryptographically random, URL-safe,
	// single-use token and its expiry (now + ResetTokenTTL).
	GenerateResetToken() (string, time.Time, error)

	// ConsumeResetToken sets the password on the account whose stored reset
	// token matches exactly and has not expired, clearing the token in the
	// same persisted update. Returns false when no live token matches; that
	// is a normal outcome, not an error.
	ConsumeResetToken(ctx context.Context, token, newPassword string) (bool, error)
}

// credentialService is the production CredentialService.
type credentialService struct {
	userStore store.UserStore
	tokens    TokenService
	hasher    PasswordHasher
	verifier  PasswordVerifier
	logger    *slog.Logger
	timeFunc  func() time.Time // Injectable for testing
}

// NewCredentialService creates a CredentialService over the given user
// store and token service, hashing passwords with bcrypt.
func NewCredentialService(
	userStore store.UserStore,
	tokens TokenService,
	log *slog.Logger,
) CredentialService {
	if log == nil {
		log = slog.Default()
	}
	hasher := NewBcryptHasher()

	return &credentialService{
		userStore: userStore,
		tokens:    tokens,
		hasher:    hasher,
		verifier:  hasher,
		logger:    log.With("component", "credential_service"),
		timeFunc:  time.Now,
	}
}

// Authenticate implements CredentialService.Authenticate.
func (s *credentialService) Authenticate(
	ctx context.Context,
	username, password string,
) (*domain.User, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for authentication",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	// An account that never completed password setup cannot log in.
	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	if err := s.verifier.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken implements CredentialService.IssueToken.
func (s *credentialService) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	return s.tokens.IssueToken(ctx, user)
}

// VerifyToken implements CredentialService.VerifyToken.
func (s *credentialService) VerifyToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.tokens.VerifyToken(ctx, tokenString)
}

// GenerateResetToken implements CredentialService.GenerateResetToken.
func (s *credentialService) GenerateResetToken() (string, time.Time, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate reset token: %w", err)
	}

	token := base64.RawURLEncoding.EncodeToString(b)
	expiry := s.timeFunc().UTC().Add(ResetTokenTTL)

	return token, expiry, nil
}

// ConsumeResetToken implements CredentialService.ConsumeResetToken.
func (s *credentialService) ConsumeResetToken(
	ctx context.Context,
	token, newPassword string,
) (bool, error) {
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.userStore.ConsumePasswordReset(ctx, token, hash, s.timeFunc())
	if err != nil {
		if store.IsNotFoundError(err) {
			// Expired or unknown token: a normal negative result.
			s.logger.Debug("reset token did not match any live token")
			return false, nil
		}
		s.logger.Error("failed to consume reset token", "error", err)
		return false, fmt.Errorf("failed to consume reset token: %w", err)
	}

	s.logger.Info("password set via reset token", "user_id", userID)
	return true, nil
}
