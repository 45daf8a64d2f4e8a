package services

import (
	"testing"

	"catalogo/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvision_SlugCollisionGetsNumericSuffix(t *testing.T) {
	service := NewStoreService(repositories.NewMockStoreRepository())

	first, err := service.Provision("user-1", "Zapatería Norte", "")
	require.NoError(t, err)
	second, err := service.Provision("user-2", "Zapatería Norte", "")
	require.NoError(t, err)
	third, err := service.Provision("user-3", "Zapatería Norte", "")
	require.NoError(t, err)

	assert.Equal(t, "zapateria-norte", first.Slug)
	assert.Equal(t, "zapateria-norte-2", second.Slug)
	assert.Equal(t, "zapateria-norte-3", third.Slug)
}

func TestProvision_UnsluggableNameFallsBack(t *testing.T) {
	service := NewStoreService(repositories.NewMockStoreRepository())

	store, err := service.Provision("user-1", "!!!", "")
	require.NoError(t, err)
	assert.Equal(t, "tienda", store.Slug)
}

func TestUpdate_SlugStaysFixed(t *testing.T) {
	service := NewStoreService(repositories.NewMockStoreRepository())

	store, err := service.Provision("user-1", "Zapatería Norte", "+5491155550000")
	require.NoError(t, err)

	updated, err := service.Update("user-1", "Calzados del Sur", "Todo en calzado", "")
	require.NoError(t, err)
	assert.Equal(t, "Calzados del Sur", updated.Name)
	assert.Equal(t, "Todo en calzado", updated.Description)
	assert.Equal(t, store.Slug, updated.Slug)
	assert.Equal(t, "+5491155550000", updated.WhatsAppPhone)
}

func TestUpdate_UnknownUser(t *testing.T) {
	service := NewStoreService(repositories.NewMockStoreRepository())

	_, err := service.Update("user-ghost", "Nombre", "", "")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestGetPublicBySlug_HidesInactiveStores(t *testing.T) {
	repo := repositories.NewMockStoreRepository()
	service := NewStoreService(repo)

	store, err := service.Provision("user-1", "Zapatería Norte", "")
	require.NoError(t, err)

	found, err := service.GetPublicBySlug(store.Slug)
	require.NoError(t, err)
	assert.Equal(t, store.ID, found.ID)

	store.Active = false
	require.NoError(t, repo.Update(store))

	_, err = service.GetPublicBySlug(store.Slug)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	_, err = service.GetPublicBySlug("no-existe")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}
