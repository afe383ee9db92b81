package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkhq/inkwell-api/internal/domain"
)

// UserStore defines the interface for user data persistence. It exclusively
// owns the read/write path to user rows and their notification-preference
// sub-records.
type UserStore interface {
	// Create saves a new user together with its notification preferences.
	// Both rows are written through the same DBTX, so wrapping the call in
	// a transaction (via WithTx) makes the pair atomic.
	// Fills in the store-assigned IDs on success.
	// Returns ErrUsernameExists or ErrEmailExists on unique violations.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user and its preferences by unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user and its preferences by username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user and its preferences by email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetAll retrieves every user with preferences attached, ordered by ID.
	GetAll(ctx context.Context) ([]*domain.User, error)

	// Update modifies an existing user row and upserts its preferences.
	// The caller must provide the complete user object.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID. The preferences row is removed by the
	// schema's cascading delete together with the user row.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) error

	// ConsumePasswordReset atomically sets the password hash and clears the
	// reset token and expiry on the user whose stored token matches exactly
	// and has not expired as of now. This is a single statement, so a token
	// can be consumed at most once.
	// Returns the matched user's ID, or ErrUserNotFound if no live token matches.
	ConsumePasswordReset(ctx context.Context, token, passwordHash string, now time.Time) (int64, error)

	// WithTx returns a UserStore bound to the provided transaction, allowing
	// multiple operations to execute atomically. The transaction is created
	// and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
