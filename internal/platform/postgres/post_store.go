package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/inkhq/inkwell-api/internal/domain"
	"github.com/inkhq/inkwell-api/internal/platform/logger"
	"github.com/inkhq/inkwell-api/internal/store"
)

// PostStore implements the store.PostStore interface using a PostgreSQL
// database as the storage backend.
type PostStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostStore creates a new PostgreSQL implementation of the PostStore
// interface.
func NewPostStore(db store.DBTX, log *slog.Logger) *PostStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostStore{
		db:     db,
		logger: log.With(slog.String("component", "post_store")),
	}
}

// Ensure PostStore implements store.PostStore interface
var _ store.PostStore = (*PostStore)(nil)

// WithTx implements store.PostStore.WithTx
func (s *PostStore) WithTx(tx *sql.Tx) store.PostStore {
	return &PostStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.PostStore.Create
// Returns store.ErrInvalidEntity if the author ID violates the foreign key.
func (s *PostStore) Create(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		log.Warn("post validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("user_id", post.UserID))
		return err
	}

	query := `
		INSERT INTO posts (user_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		post.UserID,
		post.Title,
		post.Content,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID)
	if err != nil {
		log.Error("failed to create post",
			slog.String("error", err.Error()),
			slog.Int64("user_id", post.UserID))
		return MapError(err)
	}

	log.Debug("post created",
		slog.Int64("post_id", post.ID),
		slog.Int64("user_id", post.UserID))
	return nil
}

// GetByID implements store.PostStore.GetByID
func (s *PostStore) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM posts
		WHERE id = $1
	`

	var post domain.Post
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPostNotFound
		}
		return nil, MapError(err)
	}

	return &post, nil
}

// GetAll implements store.PostStore.GetAll
func (s *PostStore) GetAll(ctx context.Context) ([]*domain.Post, error) {
	return s.list(ctx, `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC, id DESC
	`)
}

// ListByAuthor implements store.PostStore.ListByAuthor
func (s *PostStore) ListByAuthor(ctx context.Context, userID int64) ([]*domain.Post, error) {
	return s.list(ctx, `
		SELECT id, user_id, title, content, created_at, updated_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
}

// Update implements store.PostStore.Update
func (s *PostStore) Update(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		log.Warn("post validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("post_id", post.ID))
		return err
	}

	query := `
		UPDATE posts
		SET title = $1, content = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, post.Title, post.Content, post.UpdatedAt, post.ID)
	if err != nil {
		log.Error("failed to update post",
			slog.String("error", err.Error()),
			slog.Int64("post_id", post.ID))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrPostNotFound)
}

// Delete implements store.PostStore.Delete
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete post",
			slog.String("error", err.Error()),
			slog.Int64("post_id", id))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrPostNotFound)
}

func (s *PostStore) list(ctx context.Context, query string, args ...any) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var posts []*domain.Post
	for rows.Next() {
		var post domain.Post
		err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.Title,
			&post.Content,
			&post.CreatedAt,
			&post.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return posts, nil
}
