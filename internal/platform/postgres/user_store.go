package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/inkhq/inkwell-api/internal/domain"
	"github.com/inkhq/inkwell-api/internal/platform/logger"
	"github.com/inkhq/inkwell-api/internal/store"
)

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller.
func NewUserStore(db store.DBTX, log *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &UserStore{
		db:     db,
		logger: log.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
// It inserts the user row and the preferences row through the same DBTX,
// so both writes commit or roll back together when run inside a transaction.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return err
	}

	query := `
		INSERT INTO users (username, email, password_hash, reset_token, reset_token_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		nullString(user.PasswordHash),
		user.ResetToken,
		user.ResetTokenExpiry,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return MapError(err)
	}

	if user.Preferences == nil {
		user.Preferences = domain.DefaultPreferences()
	}
	user.Preferences.UserID = user.ID

	if err := s.insertPreferences(ctx, user.Preferences); err != nil {
		log.Error("failed to create notification preferences",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return MapError(err)
	}

	log.Debug("user created",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getOne(ctx, "u.id = $1", id)
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, "u.username = $1", username)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, "u.email = $1", email)
}

// GetAll implements store.UserStore.GetAll
func (s *UserStore) GetAll(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, selectUserQuery+" ORDER BY u.id")
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return users, nil
}

// Update implements store.UserStore.Update
// It writes the full user row and upserts the preferences sub-record.
// Run inside a transaction (via WithTx) when both writes must be atomic.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return err
	}

	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3,
		    reset_token = $4, reset_token_expiry = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		nullString(user.PasswordHash),
		user.ResetToken,
		user.ResetTokenExpiry,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	if user.Preferences != nil {
		user.Preferences.UserID = user.ID
		if err := s.upsertPreferences(ctx, user.Preferences); err != nil {
			log.Error("failed to upsert notification preferences",
				slog.String("error", err.Error()),
				slog.Int64("user_id", user.ID))
			return MapError(err)
		}
	}

	return nil
}

// Delete implements store.UserStore.Delete
// The preferences row goes with the user via the ON DELETE CASCADE on
// notification_preferences.user_id.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// ConsumePasswordReset implements store.UserStore.ConsumePasswordReset
// The write is a single UPDATE guarded by the token match and expiry check,
// so the password set and the token clear are atomic and a token can only
// ever be consumed once.
func (s *UserStore) ConsumePasswordReset(
	ctx context.Context,
	token, passwordHash string,
	now time.Time,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET password_hash = $1, reset_token = NULL, reset_token_expiry = NULL, updated_at = $2
		WHERE reset_token = $3 AND reset_token_expiry > $2
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query, passwordHash, now.UTC(), token).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, store.ErrUserNotFound
		}
		log.Error("failed to consume password reset token",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	log.Info("password reset token consumed", slog.Int64("user_id", id))
	return id, nil
}

const selectUserQuery = `
	SELECT u.id, u.username, u.email, u.password_hash,
	       u.reset_token, u.reset_token_expiry, u.created_at, u.updated_at,
	       p.id, p.email_enabled, p.slack_enabled, p.slack_webhook_url
	FROM users u
	LEFT JOIN notification_preferences p ON p.user_id = u.id
`

func (s *UserStore) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, selectUserQuery+" WHERE "+where, arg)
	user, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// scanUser reads one joined user+preferences row. The preferences columns
// come from a LEFT JOIN and may all be NULL.
func scanUser(scan func(dest ...any) error) (*domain.User, error) {
	var (
		user         domain.User
		passwordHash sql.NullString
		prefsID      sql.NullInt64
		emailEnabled sql.NullBool
		slackEnabled sql.NullBool
		slackWebhook sql.NullString
	)

	err := scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&passwordHash,
		&user.ResetToken,
		&user.ResetTokenExpiry,
		&user.CreatedAt,
		&user.UpdatedAt,
		&prefsID,
		&emailEnabled,
		&slackEnabled,
		&slackWebhook,
	)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = passwordHash.String
	if prefsID.Valid {
		user.Preferences = &domain.NotificationPreferences{
			ID:              prefsID.Int64,
			UserID:          user.ID,
			EmailEnabled:    emailEnabled.Bool,
			SlackEnabled:    slackEnabled.Bool,
			SlackWebhookURL: slackWebhook.String,
		}
	}

	return &user, nil
}

func (s *UserStore) insertPreferences(ctx context.Context, p *domain.NotificationPreferences) error {
	query := `
		INSERT INTO notification_preferences (user_id, email_enabled, slack_enabled, slack_webhook_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return s.db.QueryRowContext(
		ctx,
		query,
		p.UserID,
		p.EmailEnabled,
		p.SlackEnabled,
		nullString(p.SlackWebhookURL),
	).Scan(&p.ID)
}

func (s *UserStore) upsertPreferences(ctx context.Context, p *domain.NotificationPreferences) error {
	query := `
		INSERT INTO notification_preferences (user_id, email_enabled, slack_enabled, slack_webhook_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET email_enabled = EXCLUDED.email_enabled,
		    slack_enabled = EXCLUDED.slack_enabled,
		    slack_webhook_url = EXCLUDED.slack_webhook_url
		RETURNING id
	`
	return s.db.QueryRowContext(
		ctx,
		query,
		p.UserID,
		p.EmailEnabled,
		p.SlackEnabled,
		nullString(p.SlackWebhookURL),
	).Scan(&p.ID)
}

// nullString maps "" to NULL for nullable text columns.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
