package services

import (
	"testing"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	service *AuthService
	stores  *StoreService
	users   *repositories.MockUserRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := repositories.NewMockUserRepository()
	stores := NewStoreService(repositories.NewMockStoreRepository())
	return &authFixture{
		service: NewAuthService(users, stores, "test-secret"),
		stores:  stores,
		users:   users,
	}
}

func newVendor() *models.User {
	return &models.User{
		Name:     "Ana Vendedora",
		Email:    "ana@example.com",
		Phone:    "+5491155550000",
		Password: "secreta123",
	}
}

func TestRegisterVendor_ProvisionsStore(t *testing.T) {
	f := newAuthFixture(t)
	user := newVendor()

	store, err := f.service.RegisterVendor(user, "Zapatería Norte")
	require.NoError(t, err)

	assert.Equal(t, user.ID, store.UserID)
	assert.Equal(t, "Zapatería Norte", store.Name)
	assert.Equal(t, "zapateria-norte", store.Slug)
	assert.Equal(t, user.Phone, store.WhatsAppPhone)
	assert.True(t, store.Active)

	stored, err := f.users.GetByEmail(user.Email)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, stored.Role)
	assert.True(t, stored.Active)
	assert.NotEqual(t, "secreta123", stored.Password)
}

func TestRegisterVendor_StoreNameDefaultsToVendorName(t *testing.T) {
	f := newAuthFixture(t)
	user := newVendor()

	store, err := f.service.RegisterVendor(user, "")
	require.NoError(t, err)
	assert.Equal(t, user.Name, store.Name)
}

func TestRegisterVendor_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.RegisterVendor(newVendor(), "Tienda Uno")
	require.NoError(t, err)

	_, err = f.service.RegisterVendor(newVendor(), "Tienda Dos")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_ReturnsValidToken(t *testing.T) {
	f := newAuthFixture(t)
	user := newVendor()
	_, err := f.service.RegisterVendor(user, "")
	require.NoError(t, err)

	token, err := f.service.Login(user.Email, "secreta123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := f.service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, models.RoleVendor, claims["role"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	user := newVendor()
	_, err := f.service.RegisterVendor(user, "")
	require.NoError(t, err)

	_, err = f.service.Login(user.Email, "incorrecta")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.Login("nadie@example.com", "secreta123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	f := newAuthFixture(t)
	user := newVendor()
	_, err := f.service.RegisterVendor(user, "")
	require.NoError(t, err)

	stored, err := f.users.GetByEmail(user.Email)
	require.NoError(t, err)
	stored.Active = false
	require.NoError(t, f.users.Update(stored))

	_, err = f.service.Login(user.Email, "secreta123")
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestValidateToken_Garbage(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.ValidateToken("not-a-token")
	assert.Error(t, err)
}
