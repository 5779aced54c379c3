package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/soaringjerry/Pulse/internal/models"
)

var (
	_ AuthStore      = (*fakeStore)(nil)
	_ SessionStore   = (*fakeStore)(nil)
	_ QuestionStore  = (*fakeStore)(nil)
	_ FeedbackStore  = (*fakeStore)(nil)
	_ AnalyticsStore = (*fakeStore)(nil)
	_ ContactStore   = (*fakeStore)(nil)
	_ ExportStore    = (*fakeStore)(nil)
)

func newTestAuth(store AuthStore) *AuthService {
	svc := NewAuthService(store, func(adminID, email string, ttl time.Duration) (string, error) {
		return "token:" + adminID + ":" + email + ":" + ttl.String(), nil
	}, 0)
	svc.now = fixedNow
	svc.idGen = seqIDs("admin-")
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestAuth(store)

	res, err := svc.Register(ctx, RegisterInput{Name: " Ada ", Email: "Ada@Example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "admin-1", res.Admin.ID)
	assert.Equal(t, "Ada", res.Admin.Name)
	assert.Equal(t, "ada@example.com", res.Admin.Email)
	assert.Equal(t, "token:admin-1:ada@example.com:10h0m0s", res.Token)

	stored := store.admins["admin-1"]
	require.NotNil(t, stored)
	assert.NotEqual(t, []byte("secret"), stored.PasswordHash)

	_, err = svc.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "x"})
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorConflict, se.Code)
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := svc.Login(ctx, LoginInput{Email: "ADA@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "admin-1", login.Admin.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret"})
	se, ok = AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorUnauthorized, se.Code)
}

func TestAuthRegisterValidation(t *testing.T) {
	svc := newTestAuth(newFakeStore())
	cases := []RegisterInput{
		{Email: "a@b.co", Password: "p"},
		{Name: "A", Password: "p"},
		{Name: "A", Email: "not-an-email", Password: "p"},
		{Name: "A", Email: "a@b.co"},
	}
	for _, in := range cases {
		_, err := svc.Register(context.Background(), in)
		se, ok := AsServiceError(err)
		require.True(t, ok, "input %+v", in)
		assert.Equal(t, ErrorInvalid, se.Code)
	}
}

type dupOnCreateStore struct{ *fakeStore }

func (s dupOnCreateStore) CreateAdmin(context.Context, *models.Admin) error {
	return models.ErrDuplicate
}

func TestAuthRegisterConstraintRace(t *testing.T) {
	svc := newTestAuth(dupOnCreateStore{newFakeStore()})
	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.co", Password: "p"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthChangePassword(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestAuth(store)
	res, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.co", Password: "old"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, res.Admin.ID, ChangePasswordInput{OldPassword: "nope", NewPassword: "new"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, res.Admin.ID, ChangePasswordInput{OldPassword: "old", NewPassword: "new"}))
	_, err = svc.Login(ctx, LoginInput{Email: "a@b.co", Password: "new"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, "missing", ChangePasswordInput{OldPassword: "a", NewPassword: "b"})
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestAuthProfile(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newTestAuth(store)
	a, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.co", Password: "p"})
	require.NoError(t, err)
	b, err := svc.Register(ctx, RegisterInput{Name: "B", Email: "b@b.co", Password: "p"})
	require.NoError(t, err)

	bio := "  hello "
	view, err := svc.UpdateProfile(ctx, a.Admin.ID, ProfileInput{Name: "Alice", Email: "alice@b.co", Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Alice", view.Name)
	require.NotNil(t, view.Bio)
	assert.Equal(t, "hello", *view.Bio)

	got, err := svc.Profile(ctx, a.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@b.co", got.Email)

	_, err = svc.UpdateProfile(ctx, a.Admin.ID, ProfileInput{Name: "Alice", Email: b.Admin.Email})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Profile(ctx, "missing")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorNotFound, se.Code)
}

func TestAuthSignerFailure(t *testing.T) {
	svc := newTestAuth(newFakeStore())
	svc.signToken = func(string, string, time.Duration) (string, error) { return "", errors.New("boom") }
	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.co", Password: "p"})
	require.Error(t, err)
	_, isService := AsServiceError(err)
	assert.False(t, isService)
}
