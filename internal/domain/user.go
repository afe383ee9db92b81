package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Common validation errors
var (
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrUsernameTooShort = errors.New("username must be at least 3 characters long")
	ErrUsernameTooLong  = errors.New("username must be at most 50 characters long")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrResetTokenExpiry = errors.New("reset token requires an expiry")
)

// User represents a registered account.
//
// A user is created without a password; the stored reset token is the
// single-use credential that lets the owner set one. A non-nil ResetToken
// always carries a non-nil expiry, and consuming the token clears both
// fields in the same update that writes the password hash.
type User struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"` // empty until the first set-password
	ResetToken       *string    `json:"-"` // delivered out of band, never in responses
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Preferences is the owned zero-or-one notification sub-record.
	// It is persisted and deleted together with the user row.
	Preferences *NotificationPreferences `json:"preferences,omitempty"`
}

// NotificationPreferences holds the per-user delivery channel flags.
// It never exists without an owning user.
type NotificationPreferences struct {
	ID              int64  `json:"-"`
	UserID          int64  `json:"-"`
	EmailEnabled    bool   `json:"email_enabled"`
	SlackEnabled    bool   `json:"slack_enabled"`
	SlackWebhookURL string `json:"slack_webhook_url,omitempty"`
}

// DefaultPreferences returns the preference record attached to accounts
// that are created without explicit preferences: email on, Slack off.
func DefaultPreferences() *NotificationPreferences {
	return &NotificationPreferences{
		EmailEnabled: true,
		SlackEnabled: false,
	}
}

// NewUser creates a passwordless User with the given username and email
// and default notification preferences. The caller attaches the reset
// token before persisting. Returns an error if validation fails.
func NewUser(username, email string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Username:    username,
		Email:       email,
		CreatedAt:   now,
		UpdatedAt:   now,
		Preferences: DefaultPreferences(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns the first sentinel error for any field that fails.
func (u *User) Validate() error {
	switch {
	case u.Username == "":
		return ErrEmptyUsername
	case utf8.RuneCountInString(u.Username) < 3:
		return ErrUsernameTooShort
	case utf8.RuneCountInString(u.Username) > 50:
		return ErrUsernameTooLong
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	// A reset token must be paired with an expiry. An expired pair is a
	// normal persisted state (setup never completed); recency is checked
	// at consumption time, not here.
	if u.ResetToken != nil && u.ResetTokenExpiry == nil {
		return ErrResetTokenExpiry
	}

	return nil
}

// HasPassword reports whether the account has completed password setup.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// validateEmailFormat performs basic validation of email format: a single
// @ with a dotted domain after it. Richer RFC 5322 validation happens at
// the service layer via struct tags; this guards direct store writes.
func validateEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domainPart := email[at+1:]
	if strings.Contains(domainPart, "@") {
		return false
	}

	dot := strings.Index(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}
