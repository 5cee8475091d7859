package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/config"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	byID map[int]*model.User
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) List(context.Context) ([]model.User, error) { return nil, nil }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = 100 + len(f.byID)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) UpdatePassword(context.Context, int, string) error { return nil }

func (f *fakeUsers) Delete(_ context.Context, id int) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUsers, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, BcryptCost: bcrypt.MinCost}

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &fakeUsers{byID: map[int]*model.User{
		1: {ID: 1, Email: "admin@demo.com", PasswordHash: string(hash), Role: model.RoleAdmin},
		3: {ID: 3, Email: "student@demo.com", PasswordHash: string(hash), Role: model.RoleStudent, StudentID: ptr(1)},
	}}
	return NewAuthService(cfg, rdb, users), users, mr
}

func TestLoginIssuesRevocableToken(t *testing.T) {
	svc, _, mr := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, " student@demo.com ", "123456")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, resp.User.Role)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.UserID)
	require.NotNil(t, claims.OwnStudentID())
	assert.Equal(t, 1, *claims.OwnStudentID())

	require.NoError(t, svc.ValidateSession(ctx, claims.ID))
	assert.True(t, mr.Exists(config.CacheKey.SessionKey(claims.ID)))

	require.NoError(t, svc.Logout(ctx, claims))
	assert.ErrorIs(t, svc.ValidateSession(ctx, claims.ID), ErrSessionRevoked)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin@demo.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@demo.com", "123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionExpiresWithToken(t *testing.T) {
	svc, _, mr := newAuthFixture(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, "admin@demo.com", "123456")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Nil(t, claims.OwnStudentID())

	mr.FastForward(2 * time.Hour)
	assert.ErrorIs(t, svc.ValidateSession(ctx, claims.ID), ErrSessionRevoked)
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour}, nil, nil)

	token, _, err := svc.GenerateToken(context.Background(), &model.User{ID: 1, Email: "admin@demo.com", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestUserServiceCreateAndDelete(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	svc := NewUserService(users, newFakeStudents(model.Student{ID: 1, Code: "SV001"}), auth, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateUserRequest{Email: "s2@demo.com", Password: "secret1", Role: model.RoleStudent})
	assert.ErrorIs(t, err, ErrStudentLinkRequired)

	_, err = svc.Create(ctx, model.CreateUserRequest{Email: "s2@demo.com", Password: "secret1", Role: model.RoleStudent, StudentID: ptr(9)})
	assert.ErrorIs(t, err, ErrStudentNotFound)

	u, err := svc.Create(ctx, model.CreateUserRequest{Email: " Teacher2@Demo.com ", Password: "secret1", Role: model.RoleTeacher, StudentID: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, "teacher2@demo.com", u.Email)
	assert.Nil(t, u.StudentID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))

	resp, err := auth.Login(ctx, "teacher2@demo.com", "secret1")
	require.NoError(t, err)
	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, auth.ValidateSession(ctx, claims.ID), ErrSessionRevoked)
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), ErrUserNotFound)
}
