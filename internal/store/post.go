package store

import (
	"context"
	"database/sql"

	"github.com/inkhq/inkwell-api/internal/domain"
)

// PostStore defines the interface for post persistence. Posts have no
// sub-entities; every operation is a single statement and needs no
// explicit transaction.
type PostStore interface {
	// Create saves a new post and fills in the store-assigned ID.
	// Returns ErrInvalidEntity if the author does not exist.
	Create(ctx context.Context, post *domain.Post) error

	// GetByID retrieves a post by its unique ID.
	// Returns ErrPostNotFound if the post does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Post, error)

	// GetAll retrieves all posts, newest first.
	GetAll(ctx context.Context) ([]*domain.Post, error)

	// ListByAuthor retrieves all posts owned by the given user, newest first.
	ListByAuthor(ctx context.Context, userID int64) ([]*domain.Post, error)

	// Update modifies an existing post.
	// Returns ErrPostNotFound if the post does not exist.
	Update(ctx context.Context, post *domain.Post) error

	// Delete removes a post by its ID.
	// Returns ErrPostNotFound if the post does not exist.
	Delete(ctx context.Context, id int64) error

	// WithTx returns a PostStore bound to the provided transaction.
	WithTx(tx *sql.Tx) PostStore
}
