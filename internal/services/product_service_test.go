package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"testing"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMedia struct {
	uploads    int
	deleted    []string
	failDelete bool
}

func (m *fakeMedia) Upload(_ context.Context, _ io.Reader) (string, string, error) {
	m.uploads++
	return fmt.Sprintf("https://img.example/u%d.jpg", m.uploads), fmt.Sprintf("ext-%d", m.uploads), nil
}

func (m *fakeMedia) Delete(_ context.Context, externalID string) error {
	if m.failDelete {
		return errors.New("media host unavailable")
	}
	m.deleted = append(m.deleted, externalID)
	return nil
}

type productFixture struct {
	service  *ProductService
	products *repositories.MockProductRepository
	stores   *repositories.MockStoreRepository
	media    *fakeMedia
	store    *models.Store
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()

	products := repositories.NewMockProductRepository()
	stores := repositories.NewMockStoreRepository()
	media := &fakeMedia{}

	store := &models.Store{
		UserID:        "user-1",
		Name:          "Zapatería Norte",
		Slug:          "zapateria-norte",
		WhatsAppPhone: "+54 9 11 5555-0000",
		Active:        true,
	}
	require.NoError(t, stores.Create(store))

	return &productFixture{
		service:  NewProductService(products, stores, media),
		products: products,
		stores:   stores,
		media:    media,
		store:    store,
	}
}

func (f *productFixture) createProduct(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Stock: 5}
	require.NoError(t, f.service.Create(f.store.ID, p))
	return p
}

func offer(v float64) *float64 { return &v }

func TestCreate_OfferPriceMustBeLowerThanPrice(t *testing.T) {
	f := newProductFixture(t)

	err := f.service.Create(f.store.ID, &models.Product{Name: "Botas", Price: 100, OfferPrice: offer(120)})
	assert.ErrorIs(t, err, ErrInvalidOfferPrice)

	err = f.service.Create(f.store.ID, &models.Product{Name: "Botas", Price: 100, OfferPrice: offer(100)})
	assert.ErrorIs(t, err, ErrInvalidOfferPrice)

	err = f.service.Create(f.store.ID, &models.Product{Name: "Botas", Price: 100, OfferPrice: offer(80)})
	assert.NoError(t, err)

	err = f.service.Create(f.store.ID, &models.Product{Name: "Zapatillas", Price: 100})
	assert.NoError(t, err)
}

func TestCreate_BumpsStoreProductCounter(t *testing.T) {
	f := newProductFixture(t)

	p1 := f.createProduct(t, "Botas", 100)
	f.createProduct(t, "Zapatillas", 80)

	store, err := f.stores.GetByID(f.store.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, store.ProductCount)

	require.NoError(t, f.service.Delete(context.Background(), f.store.ID, p1.ID))

	store, err = f.stores.GetByID(f.store.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.ProductCount)
}

func TestGetOwned_EnforcesOwnership(t *testing.T) {
	f := newProductFixture(t)
	p := f.createProduct(t, "Botas", 100)

	_, err := f.service.GetOwned("otra-tienda", p.ID)
	assert.ErrorIs(t, err, ErrNotStoreOwner)

	_, err = f.service.GetOwned(f.store.ID, "no-existe")
	assert.ErrorIs(t, err, ErrProductNotFound)

	found, err := f.service.GetOwned(f.store.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)
}

func TestUpdate_RejectsInvalidOffer(t *testing.T) {
	f := newProductFixture(t)
	p := f.createProduct(t, "Botas", 100)

	p.OfferPrice = offer(150)
	_, err := f.service.Update(f.store.ID, p)
	assert.ErrorIs(t, err, ErrInvalidOfferPrice)

	p.OfferPrice = offer(90)
	p.Stock = 3
	updated, err := f.service.Update(f.store.ID, p)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)
	assert.Equal(t, 90.0, *updated.OfferPrice)
}

func TestGetPublic_IncrementsViews(t *testing.T) {
	f := newProductFixture(t)
	p := f.createProduct(t, "Botas", 100)

	_, err := f.service.GetPublic(f.store.ID, p.ID)
	require.NoError(t, err)
	_, err = f.service.GetPublic(f.store.ID, p.ID)
	require.NoError(t, err)

	stored, err := f.products.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Views)
}

func TestContactLink_BuildsDeepLinkAndCountsClick(t *testing.T) {
	f := newProductFixture(t)
	p := f.createProduct(t, "Botas de cuero", 100)

	link, err := f.service.ContactLink(f.store.ID, p.ID)
	require.NoError(t, err)

	text := fmt.Sprintf("Hola! Vi tu producto %q en %s y me interesa.", p.Name, f.store.Name)
	assert.Equal(t, "https://wa.me/5491155550000?text="+url.QueryEscape(text), link)

	stored, err := f.products.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.ContactClicks)
}

func TestAddImages_StoresMediaReferences(t *testing.T) {
	f := newProductFixture(t)
	p := f.createProduct(t, "Botas", 100)

	files := []io.Reader{strings.NewReader("img-a"), strings.NewReader("img-b")}
	images, err := f.service.AddImages(context.Background(), f.store.ID, p.ID, files)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "https://img.example/u1.jpg", images[0].URL)
	assert.Equal(t, "ext-1", images[0].ExternalID)

	stored, err := f.products.GetByID(p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Images, 2)
}

func TestDeleteImage_RemovesFromMediaHost(t *testing.T) {
	f := newProductFixture(t)
	p := f.createProduct(t, "Botas", 100)

	images, err := f.service.AddImages(context.Background(), f.store.ID, p.ID, []io.Reader{strings.NewReader("img")})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteImage(context.Background(), f.store.ID, p.ID, images[0].ID))
	assert.Contains(t, f.media.deleted, images[0].ExternalID)

	stored, err := f.products.GetByID(p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Images)
}

func TestDeleteImage_MediaHostFailureSurfaces(t *testing.T) {
	f := newProductFixture(t)
	p := f.createProduct(t, "Botas", 100)

	images, err := f.service.AddImages(context.Background(), f.store.ID, p.ID, []io.Reader{strings.NewReader("img")})
	require.NoError(t, err)

	f.media.failDelete = true
	err = f.service.DeleteImage(context.Background(), f.store.ID, p.ID, images[0].ID)
	assert.Error(t, err)

	// The reference survives a failed host deletion.
	stored, err := f.products.GetByID(p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Images, 1)
}

func TestDelete_MediaFailureIsBestEffort(t *testing.T) {
	f := newProductFixture(t)
	p := f.createProduct(t, "Botas", 100)

	_, err := f.service.AddImages(context.Background(), f.store.ID, p.ID, []io.Reader{strings.NewReader("img")})
	require.NoError(t, err)

	f.media.failDelete = true
	require.NoError(t, f.service.Delete(context.Background(), f.store.ID, p.ID))

	_, err = f.service.GetOwned(f.store.ID, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
