package domain

import (
	"errors"
	"time"
	"unicode/utf8"
)

// Post validation errors
var (
	ErrEmptyPostAuthor     = errors.New("post author cannot be empty")
	ErrPostTitleTooShort   = errors.New("post title must be at least 3 characters long")
	ErrPostTitleTooLong    = errors.New("post title must be at most 100 characters long")
	ErrPostContentTooShort = errors.New("post content must be at least 10 characters long")
)

// Post title/content bounds, shared with the service-layer validators.
const (
	PostTitleMinLen   = 3
	PostTitleMaxLen   = 100
	PostContentMinLen = 10
)

// Post represents a blog post owned by exactly one user.
// CreatedAt is set once, server-side, at creation; UpdatedAt is set on
// every mutation and is nil for a post that has never been edited.
type Post struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewPost creates a new Post for the given author, stamping the
// creation time. Returns an error if validation fails.
func NewPost(authorID int64, title, content string, now time.Time) (*Post, error) {
	post := &Post{
		UserID:    authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now.UTC(),
	}

	if err := post.Validate(); err != nil {
		return nil, err
	}

	return post, nil
}

// Validate checks if the Post has valid data.
func (p *Post) Validate() error {
	if p.UserID == 0 {
		return ErrEmptyPostAuthor
	}

	switch {
	case utf8.RuneCountInString(p.Title) < PostTitleMinLen:
		return ErrPostTitleTooShort
	case utf8.RuneCountInString(p.Title) > PostTitleMaxLen:
		return ErrPostTitleTooLong
	}

	if utf8.RuneCountInString(p.Content) < PostContentMinLen {
		return ErrPostContentTooShort
	}

	return nil
}
