package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkhq/inkwell-api/internal/api/shared"
	"github.com/inkhq/inkwell-api/internal/domain"
	"github.com/inkhq/inkwell-api/internal/service"
	"github.com/inkhq/inkwell-api/internal/service/auth"
)

// newRequest builds a request with an optional JSON body, chi URL
// parameters, and an optional authenticated actor on the context.
func newRequest(method, target, body string, params map[string]string, actor *service.Actor) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))

	if len(params) > 0 {
		routeCtx := chi.NewRouteContext()
		for k, v := range params {
			routeCtx.URLParams.Add(k, v)
		}
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
	}

	if actor != nil {
		r = r.WithContext(context.WithValue(r.Context(), shared.ActorContextKey, *actor))
	}

	return r
}

// fakeCredentialService is a canned auth.CredentialService for handler tests.
type fakeCredentialService struct {
	user    *domain.User
	authErr error

	token    string
	issueErr error

	claims    *auth.Claims
	verifyErr error
}

func (f *fakeCredentialService) Authenticate(_ context.Context, _, _ string) (*domain.User, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.user, nil
}

func (f *fakeCredentialService) IssueToken(context.Context, *domain.User) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	return f.token, nil
}

func (f *fakeCredentialService) VerifyToken(context.Context, string) (*auth.Claims, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.claims, nil
}

func (f *fakeCredentialService) GenerateResetToken() (string, time.Time, error) {
	panic("not used")
}

func (f *fakeCredentialService) ConsumeResetToken(context.Context, string, string) (bool, error) {
	panic("not used")
}

// fakeAccountService is a canned service.AccountService for handler tests.
type fakeAccountService struct {
	user    *domain.User
	users   []*domain.User
	err     error
	adminFn func(*domain.User) bool

	setPasswordOK  bool
	setPasswordErr error

	export    []byte
	deleted   []int64
	lastInput any
}

func (f *fakeAccountService) Create(_ context.Context, input service.CreateAccountInput) (*domain.User, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeAccountService) Get(context.Context, int64) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeAccountService) GetAll(context.Context) ([]*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeAccountService) Update(_ context.Context, _ int64, input service.UpdateAccountInput) (*domain.User, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeAccountService) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAccountService) SetPassword(context.Context, string, string, string) (bool, error) {
	return f.setPasswordOK, f.setPasswordErr
}

func (f *fakeAccountService) ExportAll(context.Context) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.export, nil
}

func (f *fakeAccountService) IsAdmin(user *domain.User) bool {
	if f.adminFn != nil {
		return f.adminFn(user)
	}
	return false
}

// fakePostService is a canned service.PostService for handler tests.
type fakePostService struct {
	post  *domain.Post
	posts []*domain.Post
	err   error

	lastAuthor int64
	lastActor  service.Actor
	deleted    []int64
}

func (f *fakePostService) Create(_ context.Context, authorID int64, _ service.CreatePostInput) (*domain.Post, error) {
	f.lastAuthor = authorID
	if f.err != nil {
		return nil, f.err
	}
	return f.post, nil
}

func (f *fakePostService) Get(context.Context, int64) (*domain.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.post, nil
}

func (f *fakePostService) GetAll(context.Context) ([]*domain.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

func (f *fakePostService) ListByAuthor(_ context.Context, userID int64) ([]*domain.Post, error) {
	f.lastAuthor = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

func (f *fakePostService) Update(_ context.Context, _ int64, actor service.Actor, _ service.UpdatePostInput) (*domain.Post, error) {
	f.lastActor = actor
	if f.err != nil {
		return nil, f.err
	}
	return f.post, nil
}

func (f *fakePostService) Delete(_ context.Context, id int64, actor service.Actor) error {
	f.lastActor = actor
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}
