package api

import (
	"time"

	"github.com/inkhq/inkwell-api/internal/domain"
	"github.com/inkhq/inkwell-api/internal/service"
)

// Common request/response structures

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user.
	UserID int64 `json:"user_id"`

	// Token is the signed session token used for API authorization.
	Token string `json:"token"`
}

// SetPasswordRequest defines the payload for the set-password endpoint.
type SetPasswordRequest struct {
	Token           string `json:"token"            validate:"required"`
	Password        string `json:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// CreateUserRequest defines the payload for the registration endpoint.
type CreateUserRequest struct {
	Username    string                    `json:"username"`
	Email       string                    `json:"email"`
	Preferences *service.PreferencesInput `json:"preferences,omitempty"`
}

// UpdateUserRequest defines the payload for the user update endpoint.
type UpdateUserRequest struct {
	Email       string                    `json:"email"`
	Preferences *service.PreferencesInput `json:"preferences,omitempty"`
}

// PreferencesPayload mirrors a user's notification preferences.
type PreferencesPayload struct {
	EmailEnabled    bool   `json:"email_enabled"`
	SlackEnabled    bool   `json:"slack_enabled"`
	SlackWebhookURL string `json:"slack_webhook_url,omitempty"`
}

// UserResponse is the public projection of a user. Password hash and reset
// token never appear here.
type UserResponse struct {
	ID          int64               `json:"id"`
	Username    string              `json:"username"`
	Email       string              `json:"email"`
	Admin       bool                `json:"admin"`
	CreatedAt   time.Time           `json:"created_at"`
	Preferences *PreferencesPayload `json:"preferences,omitempty"`
}

// NewUserResponse maps a domain user to its public projection.
func NewUserResponse(user *domain.User, admin bool) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Admin:     admin,
		CreatedAt: user.CreatedAt,
	}
	if user.Preferences != nil {
		resp.Preferences = &PreferencesPayload{
			EmailEnabled:    user.Preferences.EmailEnabled,
			SlackEnabled:    user.Preferences.SlackEnabled,
			SlackWebhookURL: user.Preferences.SlackWebhookURL,
		}
	}
	return resp
}

// CreatePostRequest defines the payload for the post creation endpoint.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePostRequest defines the partial-update payload for posts.
// Absent fields are left untouched.
type UpdatePostRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}
