package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/inkhq/inkwell-api/internal/domain"
	"github.com/inkhq/inkwell-api/internal/service/auth"
	"github.com/inkhq/inkwell-api/internal/store"
)

// Mailer is the narrow contract of the email collaborator. Its success or
// failure is invisible to callers of AccountService.Create.
type Mailer interface {
	// SendSetupEmail composes and sends the password-setup notification
	// containing a link that embeds the opaque token.
	SendSetupEmail(ctx context.Context, toEmail, displayName, token string) error
}

// PreferencesInput carries optional notification-preference values for
// account create/update.
type PreferencesInput struct {
	EmailEnabled    bool   `json:"email_enabled"`
	SlackEnabled    bool   `json:"slack_enabled"`
	SlackWebhookURL string `json:"slack_webhook_url" validate:"omitempty,url"`
}

// CreateAccountInput is the validated input for AccountService.Create.
type CreateAccountInput struct {
	Username    string            `json:"username" validate:"required,min=3,max=50"`
	Email       string            `json:"email"    validate:"required,email"`
	Preferences *PreferencesInput `json:"preferences"`
}

// UpdateAccountInput is the validated input for AccountService.Update.
type UpdateAccountInput struct {
	Email       string            `json:"email" validate:"required,email"`
	Preferences *PreferencesInput `json:"preferences"`
}

// exportHeader is the column order of the account export. Rows follow the
// same projection: id, username, email, admin flag, preferences.
var exportHeader = []string{
	"id", "username", "email", "admin",
	"email_enabled", "slack_enabled", "slack_webhook_url",
}

// AccountService validates and orchestrates user create/update, delegates
// persistence to the user store, and triggers reset-email dispatch.
type AccountService interface {
	// Create validates the input (reporting every violation), builds a
	// passwordless user with a fresh reset token and default-or-provided
	// preferences, persists both rows in one transaction, and then makes a
	// single best-effort setup-email attempt if the user's email channel is
	// enabled. Email failure never fails the create.
	Create(ctx context.Context, input CreateAccountInput) (*domain.User, error)

	// Get retrieves a user by ID. Returns store.ErrUserNotFound if absent.
	Get(ctx context.Context, id int64) (*domain.User, error)

	// GetAll retrieves every user.
	GetAll(ctx context.Context) ([]*domain.User, error)

	// Update validates the input, updates the email, and merges the
	// notification-preference changes (creating the sub-record if absent) in
	// one transaction. Returns store.ErrUserNotFound if the user is absent.
	Update(ctx context.Context, id int64, input UpdateAccountInput) (*domain.User, error)

	// Delete removes a user and, via cascade, its preferences.
	Delete(ctx context.Context, id int64) error

	// SetPassword validates password strength and confirmation, then
	// consumes the reset token. Returns false when the token is unknown or
	// expired.
	SetPassword(ctx context.Context, token, password, confirmPassword string) (bool, error)

	// ExportAll serializes every account to CSV: one header row in the
	// projection's field order, then one row per user.
	ExportAll(ctx context.Context) ([]byte, error)

	// IsAdmin reports whether the role policy grants the user the
	// administrator role.
	IsAdmin(user *domain.User) bool
}

// accountService is the production AccountService.
type accountService struct {
	txRunner    store.TxRunner
	userStore   store.UserStore
	credentials auth.CredentialService
	rolePolicy  auth.RolePolicy
	mailer      Mailer
	validate    *validator.Validate
	logger      *slog.Logger
	timeFunc    func() time.Time
}

// NewAccountService creates an AccountService.
func NewAccountService(
	txRunner store.TxRunner,
	userStore store.UserStore,
	credentials auth.CredentialService,
	rolePolicy auth.RolePolicy,
	mailer Mailer,
	log *slog.Logger,
) AccountService {
	if log == nil {
		log = slog.Default()
	}

	return &accountService{
		txRunner:    txRunner,
		userStore:   userStore,
		credentials: credentials,
		rolePolicy:  rolePolicy,
		mailer:      mailer,
		validate:    validator.New(),
		logger:      log.With("component", "account_service"),
		timeFunc:    time.Now,
	}
}

// Create implements AccountService.Create.
func (s *accountService) Create(
	ctx context.Context,
	input CreateAccountInput,
) (*domain.User, error) {
	if err := checkStruct(s.validate, input); err != nil {
		return nil, err
	}

	user, err := domain.NewUser(input.Username, input.Email)
	if err != nil {
		return nil, err
	}

	// Every account starts passwordless with a live reset token so the
	// first login always flows through set-password.
	token, expiry, err := s.credentials.GenerateResetToken()
	if err != nil {
		return nil, err
	}
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry

	if input.Preferences != nil {
		user.Preferences = &domain.NotificationPreferences{
			EmailEnabled:    input.Preferences.EmailEnabled,
			SlackEnabled:    input.Preferences.SlackEnabled,
			SlackWebhookURL: input.Preferences.SlackWebhookURL,
		}
	}

	// The user row and the preferences row commit or roll back together.
	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("attempted to create duplicate account",
				"username", input.Username)
		} else {
			s.logger.Error("failed to persist account",
				"error", err,
				"username", input.Username)
		}
		return nil, err
	}

	s.dispatchSetupEmail(ctx, user, token)

	return user, nil
}

// dispatchSetupEmail makes one synchronous attempt and swallows failures;
// email delivery must never fail the create.
func (s *accountService) dispatchSetupEmail(ctx context.Context, user *domain.User, token string) {
	if user.Preferences == nil || !user.Preferences.EmailEnabled {
		return
	}

	if err := s.mailer.SendSetupEmail(ctx, user.Email, user.Username, token); err != nil {
		s.logger.Warn("setup email dispatch failed",
			"error", err,
			"user_id", user.ID)
	}
}

// Get implements AccountService.Get.
func (s *accountService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.userStore.GetByID(ctx, id)
}

// GetAll implements AccountService.GetAll.
func (s *accountService) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.userStore.GetAll(ctx)
}

// Update implements AccountService.Update.
func (s *accountService) Update(
	ctx context.Context,
	id int64,
	input UpdateAccountInput,
) (*domain.User, error) {
	if err := checkStruct(s.validate, input); err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Email = input.Email
	user.UpdatedAt = s.timeFunc().UTC()

	if input.Preferences != nil {
		if user.Preferences == nil {
			user.Preferences = &domain.NotificationPreferences{UserID: user.ID}
		}
		user.Preferences.EmailEnabled = input.Preferences.EmailEnabled
		user.Preferences.SlackEnabled = input.Preferences.SlackEnabled
		user.Preferences.SlackWebhookURL = input.Preferences.SlackWebhookURL
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Delete implements AccountService.Delete.
func (s *accountService) Delete(ctx context.Context, id int64) error {
	return s.userStore.Delete(ctx, id)
}

// SetPassword implements AccountService.SetPassword.
func (s *accountService) SetPassword(
	ctx context.Context,
	token, password, confirmPassword string,
) (bool, error) {
	ve := &ValidationError{}
	for _, msg := range auth.PasswordViolations(password) {
		ve.Violations = append(ve.Violations, FieldViolation{
			Field:   "password",
			Rule:    "strength",
			Message: msg,
		})
	}
	if password != confirmPassword {
		ve.Violations = append(ve.Violations, FieldViolation{
			Field:   "confirm_password",
			Rule:    "match",
			Message: "must match password",
		})
	}
	if len(ve.Violations) > 0 {
		return false, ve
	}

	return s.credentials.ConsumeResetToken(ctx, token, password)
}

// ExportAll implements AccountService.ExportAll.
func (s *accountService) ExportAll(ctx context.Context) ([]byte, error) {
	users, err := s.userStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for _, user := range users {
		prefs := user.Preferences
		if prefs == nil {
			prefs = domain.DefaultPreferences()
		}
		record := []string{
			strconv.FormatInt(user.ID, 10),
			user.Username,
			user.Email,
			strconv.FormatBool(s.rolePolicy.IsAdmin(user)),
			strconv.FormatBool(prefs.EmailEnabled),
			strconv.FormatBool(prefs.SlackEnabled),
			prefs.SlackWebhookURL,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}

	return buf.Bytes(), nil
}

// IsAdmin implements AccountService.IsAdmin.
func (s *accountService) IsAdmin(user *domain.User) bool {
	return s.rolePolicy.IsAdmin(user)
}
