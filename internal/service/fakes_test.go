package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/inkhq/inkwell-api/internal/domain"
	"github.com/inkhq/inkwell-api/internal/service/auth"
	"github.com/inkhq/inkwell-api/internal/store"
)

// fakeTxRunner passes the function straight through with a nil transaction.
// The fake stores ignore the transaction handle.
type fakeTxRunner struct {
	err error
}

func (r *fakeTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	if r.err != nil {
		return r.err
	}
	return fn(ctx, nil)
}

// fakeUserStore is an in-memory store.UserStore.
type fakeUserStore struct {
	users  map[int64]*domain.User
	nextID int64

	createErr error
	updateErr error
	getAllErr error

	updated *domain.User
	deleted []int64
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[int64]*domain.User), nextID: 1}
	for _, u := range users {
		f.users[u.ID] = u
		if u.ID >= f.nextID {
			f.nextID = u.ID + 1
		}
	}
	return f
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = f.nextID
	f.nextID++
	if user.Preferences != nil {
		user.Preferences.UserID = user.ID
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetAll(_ context.Context) ([]*domain.User, error) {
	if f.getAllErr != nil {
		return nil, f.getAllErr
	}
	out := make([]*domain.User, 0, len(f.users))
	for id := int64(1); id < f.nextID; id++ {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, user *domain.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	f.users[user.ID] = user
	f.updated = user
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUserStore) ConsumePasswordReset(
	_ context.Context,
	token, passwordHash string,
	now time.Time,
) (int64, error) {
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now) {
			u.PasswordHash = passwordHash
			u.ResetToken = nil
			u.ResetTokenExpiry = nil
			return u.ID, nil
		}
	}
	return 0, store.ErrUserNotFound
}

func (f *fakeUserStore) WithTx(*sql.Tx) store.UserStore { return f }

// fakePostStore is an in-memory store.PostStore.
type fakePostStore struct {
	posts  map[int64]*domain.Post
	nextID int64

	createErr error
	updateErr error

	updated *domain.Post
	deleted []int64
}

func newFakePostStore(posts ...*domain.Post) *fakePostStore {
	f := &fakePostStore{posts: make(map[int64]*domain.Post), nextID: 1}
	for _, p := range posts {
		f.posts[p.ID] = p
		if p.ID >= f.nextID {
			f.nextID = p.ID + 1
		}
	}
	return f
}

func (f *fakePostStore) Create(_ context.Context, post *domain.Post) error {
	if f.createErr != nil {
		return f.createErr
	}
	post.ID = f.nextID
	f.nextID++
	f.posts[post.ID] = post
	return nil
}

func (f *fakePostStore) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, store.ErrPostNotFound
	}
	copied := *post
	return &copied, nil
}

func (f *fakePostStore) GetAll(_ context.Context) ([]*domain.Post, error) {
	out := make([]*domain.Post, 0, len(f.posts))
	for id := f.nextID - 1; id >= 1; id-- {
		if p, ok := f.posts[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostStore) ListByAuthor(_ context.Context, userID int64) ([]*domain.Post, error) {
	var out []*domain.Post
	for id := f.nextID - 1; id >= 1; id-- {
		if p, ok := f.posts[id]; ok && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostStore) Update(_ context.Context, post *domain.Post) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.posts[post.ID]; !ok {
		return store.ErrPostNotFound
	}
	f.posts[post.ID] = post
	f.updated = post
	return nil
}

func (f *fakePostStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.posts[id]; !ok {
		return store.ErrPostNotFound
	}
	delete(f.posts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePostStore) WithTx(*sql.Tx) store.PostStore { return f }

// fakeCredentials returns canned reset tokens and records consumption calls.
type fakeCredentials struct {
	token  string
	expiry time.Time
	genErr error

	consumed        bool
	consumedToken   string
	consumePassword string
	consumeOK       bool
	consumeErr      error
}

func (f *fakeCredentials) Authenticate(context.Context, string, string) (*domain.User, error) {
	panic("not used")
}

func (f *fakeCredentials) IssueToken(context.Context, *domain.User) (string, error) {
	panic("not used")
}

func (f *fakeCredentials) VerifyToken(context.Context, string) (*auth.Claims, error) {
	panic("not used")
}

func (f *fakeCredentials) GenerateResetToken() (string, time.Time, error) {
	if f.genErr != nil {
		return "", time.Time{}, f.genErr
	}
	return f.token, f.expiry, nil
}

func (f *fakeCredentials) ConsumeResetToken(_ context.Context, token, password string) (bool, error) {
	f.consumed = true
	f.consumedToken = token
	f.consumePassword = password
	return f.consumeOK, f.consumeErr
}

// fakeMailer records send attempts and optionally fails them.
type fakeMailer struct {
	err error

	sent      int
	lastEmail string
	lastName  string
	lastToken string
}

func (f *fakeMailer) SendSetupEmail(_ context.Context, toEmail, displayName, token string) error {
	f.sent++
	f.lastEmail = toEmail
	f.lastName = displayName
	f.lastToken = token
	return f.err
}

// domainPolicy grants the admin role to a fixed email suffix.
type domainPolicy struct {
	suffix string
}

func (p domainPolicy) IsAdmin(user *domain.User) bool {
	return p.suffix != "" && user != nil &&
		len(user.Email) >= len(p.suffix) &&
		user.Email[len(user.Email)-len(p.suffix):] == p.suffix
}
