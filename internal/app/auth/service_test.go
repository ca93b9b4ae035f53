package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if _, exists := f.users[user.Username]; exists {
		return domain.Conflictf("duplicate username %q", user.Username)
	}
	user.ID = int64(len(f.users) + 1)
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, domain.NotFoundf("user %q", username)
	}
	return u, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error { return nil }

func newTestService(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("waiter123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]*domain.User{
		"waiter1": {ID: 1, Username: "waiter1", PasswordHash: string(hash), Role: domain.RoleWaiter, IsActive: true},
	}}
	return NewService(repo, "test-secret", time.Hour, logger.Nop()), repo
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _ := newTestService(t)

	token, user, err := svc.Login(context.Background(), "waiter1", "waiter123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleWaiter, user.Role)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "waiter1", claims.Username)
	assert.Equal(t, domain.RoleWaiter, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "waiter1", "wrong")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "ghost", "whatever")
	assert.True(t, errors.Is(err, domain.ErrValidation), "unknown user must look like bad credentials")
}

func TestLoginInactiveUser(t *testing.T) {
	svc, repo := newTestService(t)
	repo.users["waiter1"].IsActive = false

	_, _, err := svc.Login(context.Background(), "waiter1", "waiter123")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.VerifyToken("not-a-token")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestVerifyTokenRejectsForeignSecret(t *testing.T) {
	svc, _ := newTestService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw1234"), bcrypt.MinCost)
	require.NoError(t, err)
	otherRepo := &fakeUserRepo{users: map[string]*domain.User{
		"x": {ID: 2, Username: "x", PasswordHash: string(hash), Role: domain.RoleChef, IsActive: true},
	}}
	other := NewService(otherRepo, "other-secret", time.Hour, logger.Nop())

	token, _, err := other.Login(context.Background(), "x", "pw1234")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, repo := newTestService(t)

	user, err := svc.CreateUser(context.Background(), interfaces.CreateUserCommand{
		Username: "chef1",
		Password: "chef123",
		Role:     domain.RoleChef,
	})
	require.NoError(t, err)

	stored := repo.users["chef1"]
	assert.NotEqual(t, "chef123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("chef123")))
	assert.True(t, user.IsActive)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateUser(context.Background(), interfaces.CreateUserCommand{Username: "", Password: "long-enough", Role: domain.RoleChef})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.CreateUser(context.Background(), interfaces.CreateUserCommand{Username: "u", Password: "short", Role: domain.RoleChef})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = svc.CreateUser(context.Background(), interfaces.CreateUserCommand{Username: "u", Password: "long-enough", Role: domain.Role("janitor")})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
