package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"techradar-api/internal/model"
	"techradar-api/internal/repository/memory"
)

func newTestUsers(users ...model.User) (*UserService, *memory.UserStore) {
	store := memory.NewUserStore(users...)
	svc := NewUserService(store, nil, discardLogger())
	svc.hashCost = bcrypt.MinCost
	return svc, store
}

func TestUserService_Create(t *testing.T) {
	svc, _ := newTestUsers()
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateUserRequest{
		Username: " alice ", Email: "alice@example.com", Password: "wonderland",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "alice", created.DisplayName)
	assert.Equal(t, "viewer", created.Role)
	assert.True(t, created.IsActive)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("wonderland")))

	_, err = svc.Create(ctx, model.CreateUserRequest{
		Username: "ALICE", Email: "other@example.com", Password: "wonderland",
	})
	assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
}

func TestUserService_CreateValidation(t *testing.T) {
	svc, _ := newTestUsers()

	cases := map[string]model.CreateUserRequest{
		"empty username": {Email: "a@example.com", Password: "long-enough"},
		"bad email":      {Username: "a", Email: "not-an-email", Password: "long-enough"},
		"short password": {Username: "a", Email: "a@example.com", Password: "short"},
		"unknown role":   {Username: "a", Email: "a@example.com", Password: "long-enough", Role: "admin"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestUserService_UpdatePartial(t *testing.T) {
	svc, _ := newTestUsers(model.User{ID: 3, Username: "carol", Email: "carol@example.com", DisplayName: "Carol", Role: "viewer", IsActive: true})
	ctx := context.Background()

	role := "Admin"
	updated, err := svc.Update(ctx, 3, model.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Admin", updated.Role)
	assert.Equal(t, "Carol", updated.DisplayName)
	assert.Equal(t, "carol@example.com", updated.Email)

	bad := "superuser"
	_, err = svc.Update(ctx, 3, model.UpdateUserRequest{Role: &bad})
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.Update(ctx, 99, model.UpdateUserRequest{Role: &role})
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserService_DeleteSelfIsForbidden(t *testing.T) {
	svc, _ := newTestUsers(
		model.User{ID: 1, Username: "admin", Email: "admin@example.com"},
		model.User{ID: 2, Username: "bob", Email: "bob@example.com"},
	)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, 1, 1), model.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, 1, 2))
	assert.ErrorIs(t, svc.Delete(ctx, 1, 2), model.ErrUserNotFound)
}

func TestUserService_EnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates admin in empty table", func(t *testing.T) {
		svc, store := newTestUsers()
		require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "root", "bootstrap-pass"))

		u, err := store.FindByUsername(ctx, "root")
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin.String(), u.Role)
		assert.True(t, u.IsActive)

		require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "root", "bootstrap-pass"))
		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("skipped when users exist", func(t *testing.T) {
		svc, store := newTestUsers(model.User{ID: 1, Username: "alice", Email: "alice@example.com"})
		require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "root", "bootstrap-pass"))

		_, err := store.FindByUsername(ctx, "root")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})

	t.Run("disabled without username", func(t *testing.T) {
		svc, store := newTestUsers()
		require.NoError(t, svc.EnsureBootstrapAdmin(ctx, "", ""))

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
