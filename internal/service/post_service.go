package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/inkhq/inkwell-api/internal/domain"
	"github.com/inkhq/inkwell-api/internal/store"
)

// Actor identifies the caller of a post mutation for authorization. It is
// computed exactly once by the API layer from verified token claims, so the
// service never has to re-fetch a post to discover its true author.
type Actor struct {
	UserID int64
	Admin  bool
}

// CanMutate reports whether the actor may mutate a post owned by authorID.
func (a Actor) CanMutate(authorID int64) bool {
	return a.UserID == authorID || a.Admin
}

// CreatePostInput is the validated input for PostService.Create.
type CreatePostInput struct {
	Title   string `json:"title"   validate:"required,min=3,max=100"`
	Content string `json:"content" validate:"required,min=10"`
}

// UpdatePostInput is the partial-update input for PostService.Update.
// Only non-nil fields are validated and applied.
type UpdatePostInput struct {
	Title   *string `json:"title"   validate:"omitempty,min=3,max=100"`
	Content *string `json:"content" validate:"omitempty,min=10"`
}

// PostService validates and orchestrates post create/update/delete with
// ownership enforcement, delegating persistence to the post store.
type PostService interface {
	// Create validates the input (reporting every violation), verifies the
	// author exists (ErrAuthorNotFound if not), stamps the creation time,
	// and persists.
	Create(ctx context.Context, authorID int64, input CreatePostInput) (*domain.Post, error)

	// Get retrieves a post by ID. Returns store.ErrPostNotFound if absent.
	Get(ctx context.Context, id int64) (*domain.Post, error)

	// GetAll retrieves all posts, newest first.
	GetAll(ctx context.Context) ([]*domain.Post, error)

	// ListByAuthor retrieves the posts owned by one user, newest first.
	ListByAuthor(ctx context.Context, userID int64) ([]*domain.Post, error)

	// Update applies the non-nil fields and stamps the update time. An
	// absent post and an unauthorized actor both yield store.ErrPostNotFound
	// so callers cannot probe for existence.
	Update(ctx context.Context, id int64, actor Actor, input UpdatePostInput) (*domain.Post, error)

	// Delete removes the post under the same authorization rule as Update.
	Delete(ctx context.Context, id int64, actor Actor) error
}

// postService is the production PostService.
type postService struct {
	postStore store.PostStore
	userStore store.UserStore
	validate  *validator.Validate
	logger    *slog.Logger
	timeFunc  func() time.Time
}

// NewPostService creates a PostService.
func NewPostService(
	postStore store.PostStore,
	userStore store.UserStore,
	log *slog.Logger,
) PostService {
	if log == nil {
		log = slog.Default()
	}

	return &postService{
		postStore: postStore,
		userStore: userStore,
		validate:  validator.New(),
		logger:    log.With("component", "post_service"),
		timeFunc:  time.Now,
	}
}

// Create implements PostService.Create.
func (s *postService) Create(
	ctx context.Context,
	authorID int64,
	input CreatePostInput,
) (*domain.Post, error) {
	if err := checkStruct(s.validate, input); err != nil {
		return nil, err
	}

	// Cross-entity consistency is enforced here at write time, not by the
	// store layer.
	if _, err := s.userStore.GetByID(ctx, authorID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	post, err := domain.NewPost(authorID, input.Title, input.Content, s.timeFunc())
	if err != nil {
		return nil, err
	}

	if err := s.postStore.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		"post_id", post.ID,
		"user_id", authorID)
	return post, nil
}

// Get implements PostService.Get.
func (s *postService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.postStore.GetByID(ctx, id)
}

// GetAll implements PostService.GetAll.
func (s *postService) GetAll(ctx context.Context) ([]*domain.Post, error) {
	return s.postStore.GetAll(ctx)
}

// ListByAuthor implements PostService.ListByAuthor.
func (s *postService) ListByAuthor(ctx context.Context, userID int64) ([]*domain.Post, error) {
	return s.postStore.ListByAuthor(ctx, userID)
}

// Update implements PostService.Update.
func (s *postService) Update(
	ctx context.Context,
	id int64,
	actor Actor,
	input UpdatePostInput,
) (*domain.Post, error) {
	if err := checkStruct(s.validate, input); err != nil {
		return nil, err
	}

	post, err := s.postStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanMutate(post.UserID) {
		// Same outcome as an absent post, by contract.
		return nil, store.ErrPostNotFound
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	now := s.timeFunc().UTC()
	post.UpdatedAt = &now

	if err := s.postStore.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Delete implements PostService.Delete.
func (s *postService) Delete(ctx context.Context, id int64, actor Actor) error {
	post, err := s.postStore.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanMutate(post.UserID) {
		return store.ErrPostNotFound
	}

	if err := s.postStore.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("post deleted",
		"post_id", id,
		"user_id", actor.UserID)
	return nil
}
