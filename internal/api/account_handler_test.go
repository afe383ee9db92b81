package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkhq/inkwell-api/internal/domain"
	"github.com/inkhq/inkwell-api/internal/service"
	"github.com/inkhq/inkwell-api/internal/store"
)

func sampleUser() *domain.User {
	return &domain.User{
		ID:        7,
		Username:  "alice",
		Email:     "alice@example.com",
		CreatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Preferences: &domain.NotificationPreferences{
			EmailEnabled: true,
		},
	}
}

func TestAccountHandlerCreate(t *testing.T) {
	t.Parallel()

	t.Run("valid registration returns 201", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccountService{user: sampleUser()}
		handler := NewAccountHandler(accounts, nil)

		w := httptest.NewRecorder()
		handler.Create(w, newRequest(http.MethodPost, "/api/users",
			`{"username":"alice","email":"alice@example.com"}`, nil, nil))

		require.Equal(t, http.StatusCreated, w.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, "alice", resp.Username)
		require.NotNil(t, resp.Preferences)
		assert.True(t, resp.Preferences.EmailEnabled)

		input, ok := accounts.lastInput.(service.CreateAccountInput)
		require.True(t, ok)
		assert.Equal(t, "alice", input.Username)
	})

	t.Run("validation failure returns 400 with violations", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccountService{err: &service.ValidationError{
			Violations: []service.FieldViolation{
				{Field: "username", Rule: "min", Message: "must be at least 3 characters long"},
				{Field: "email", Rule: "email", Message: "must be a well-formed email address"},
			},
		}}
		handler := NewAccountHandler(accounts, nil)

		w := httptest.NewRecorder()
		handler.Create(w, newRequest(http.MethodPost, "/api/users",
			`{"username":"al","email":"nope"}`, nil, nil))

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Violations []service.FieldViolation `json:"violations"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Violations, 2)
	})

	t.Run("duplicate username returns 409", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccountService{err: store.ErrUsernameExists}
		handler := NewAccountHandler(accounts, nil)

		w := httptest.NewRecorder()
		handler.Create(w, newRequest(http.MethodPost, "/api/users",
			`{"username":"alice","email":"alice@example.com"}`, nil, nil))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown fields return 400", func(t *testing.T) {
		t.Parallel()

		handler := NewAccountHandler(&fakeAccountService{}, nil)

		w := httptest.NewRecorder()
		handler.Create(w, newRequest(http.MethodPost, "/api/users",
			`{"username":"alice","email":"alice@example.com","password":"sneaky"}`, nil, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAccountHandlerGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		actor      *service.Actor
		wantStatus int
	}{
		{
			name:       "owner reads self",
			actor:      &service.Actor{UserID: 7},
			wantStatus: http.StatusOK,
		},
		{
			name:       "admin reads anyone",
			actor:      &service.Actor{UserID: 1, Admin: true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "stranger gets not found",
			actor:      &service.Actor{UserID: 2},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unauthenticated gets 401",
			actor:      nil,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			accounts := &fakeAccountService{user: sampleUser()}
			handler := NewAccountHandler(accounts, nil)

			w := httptest.NewRecorder()
			handler.Get(w, newRequest(http.MethodGet, "/api/users/7", "",
				map[string]string{"id": "7"}, tc.actor))

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}

	t.Run("invalid id returns 400", func(t *testing.T) {
		t.Parallel()

		handler := NewAccountHandler(&fakeAccountService{}, nil)

		w := httptest.NewRecorder()
		handler.Get(w, newRequest(http.MethodGet, "/api/users/abc", "",
			map[string]string{"id": "abc"}, &service.Actor{UserID: 7}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAccountHandlerUpdate(t *testing.T) {
	t.Parallel()

	t.Run("owner updates self", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccountService{user: sampleUser()}
		handler := NewAccountHandler(accounts, nil)

		w := httptest.NewRecorder()
		handler.Update(w, newRequest(http.MethodPut, "/api/users/7",
			`{"email":"new@example.com","preferences":{"slack_enabled":true}}`,
			map[string]string{"id": "7"}, &service.Actor{UserID: 7}))

		require.Equal(t, http.StatusOK, w.Code)

		input, ok := accounts.lastInput.(service.UpdateAccountInput)
		require.True(t, ok)
		assert.Equal(t, "new@example.com", input.Email)
		require.NotNil(t, input.Preferences)
		assert.True(t, input.Preferences.SlackEnabled)
	})

	t.Run("non-owner gets not found", func(t *testing.T) {
		t.Parallel()

		handler := NewAccountHandler(&fakeAccountService{}, nil)

		w := httptest.NewRecorder()
		handler.Update(w, newRequest(http.MethodPut, "/api/users/7",
			`{"email":"new@example.com"}`,
			map[string]string{"id": "7"}, &service.Actor{UserID: 2}))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("admin updates anyone", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccountService{user: sampleUser()}
		handler := NewAccountHandler(accounts, nil)

		w := httptest.NewRecorder()
		handler.Update(w, newRequest(http.MethodPut, "/api/users/7",
			`{"email":"new@example.com"}`,
			map[string]string{"id": "7"}, &service.Actor{UserID: 1, Admin: true}))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAccountHandlerDelete(t *testing.T) {
	t.Parallel()

	t.Run("owner deletes self", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccountService{}
		handler := NewAccountHandler(accounts, nil)

		w := httptest.NewRecorder()
		handler.Delete(w, newRequest(http.MethodDelete, "/api/users/7", "",
			map[string]string{"id": "7"}, &service.Actor{UserID: 7}))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []int64{7}, accounts.deleted)
	})

	t.Run("non-owner gets not found", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccountService{}
		handler := NewAccountHandler(accounts, nil)

		w := httptest.NewRecorder()
		handler.Delete(w, newRequest(http.MethodDelete, "/api/users/7", "",
			map[string]string{"id": "7"}, &service.Actor{UserID: 2}))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, accounts.deleted)
	})
}

func TestAccountHandlerList(t *testing.T) {
	t.Parallel()

	t.Run("admin lists everyone", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccountService{users: []*domain.User{sampleUser()}}
		handler := NewAccountHandler(accounts, nil)

		w := httptest.NewRecorder()
		handler.List(w, newRequest(http.MethodGet, "/api/users", "",
			nil, &service.Actor{UserID: 1, Admin: true}))

		require.Equal(t, http.StatusOK, w.Code)

		var resp []UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		t.Parallel()

		handler := NewAccountHandler(&fakeAccountService{}, nil)

		w := httptest.NewRecorder()
		handler.List(w, newRequest(http.MethodGet, "/api/users", "",
			nil, &service.Actor{UserID: 1}))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAccountHandlerExport(t *testing.T) {
	t.Parallel()

	t.Run("admin downloads csv", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccountService{
			export: []byte("id,username,email,admin,email_enabled,slack_enabled,slack_webhook_url\n"),
		}
		handler := NewAccountHandler(accounts, nil)

		w := httptest.NewRecorder()
		handler.Export(w, newRequest(http.MethodGet, "/api/users/export.csv", "",
			nil, &service.Actor{UserID: 1, Admin: true}))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "accounts.csv")
		assert.Contains(t, w.Body.String(), "id,username,email")
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		t.Parallel()

		handler := NewAccountHandler(&fakeAccountService{}, nil)

		w := httptest.NewRecorder()
		handler.Export(w, newRequest(http.MethodGet, "/api/users/export.csv", "",
			nil, &service.Actor{UserID: 1}))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
