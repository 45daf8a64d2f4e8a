package services

import (
	"testing"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUserActive_Toggles(t *testing.T) {
	users := repositories.NewMockUserRepository()
	service := NewAdminService(users, repositories.NewMockStoreRepository())

	user := &models.User{Name: "Ana", Email: "ana@example.com", Active: true}
	require.NoError(t, users.Create(user))

	disabled, err := service.SetUserActive(user.ID, false)
	require.NoError(t, err)
	assert.False(t, disabled.Active)

	stored, err := users.GetByID(user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	_, err = service.SetUserActive("no-existe", true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetStoreActive_Toggles(t *testing.T) {
	stores := repositories.NewMockStoreRepository()
	service := NewAdminService(repositories.NewMockUserRepository(), stores)

	store := &models.Store{UserID: "user-1", Name: "Tienda", Slug: "tienda", Active: true}
	require.NoError(t, stores.Create(store))

	disabled, err := service.SetStoreActive(store.ID, false)
	require.NoError(t, err)
	assert.False(t, disabled.Active)

	_, err = service.SetStoreActive("no-existe", true)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}
