package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Product errors surfaced to handlers.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrNotStoreOwner     = errors.New("product belongs to another store")
	ErrInvalidOfferPrice = errors.New("offer price must be lower than the price")
)

// MediaStorage is the opaque external image host: upload one file, get back
// its public URL and the host's id for later deletion.
type MediaStorage interface {
	Upload(ctx context.Context, file io.Reader) (url string, externalID string, err error)
	Delete(ctx context.Context, externalID string) error
}

var nonDigits = regexp.MustCompile(`\D`)

// ProductService handles business logic related to catalog products.
type ProductService struct {
	repo      repositories.ProductRepository
	storeRepo repositories.StoreRepository
	media     MediaStorage
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, storeRepo repositories.StoreRepository, media MediaStorage) *ProductService {
	return &ProductService{
		repo:      repo,
		storeRepo: storeRepo,
		media:     media,
	}
}

// ListByStore retrieves all products of a store.
func (s *ProductService) ListByStore(storeID string) ([]models.Product, error) {
	return s.repo.GetByStore(storeID)
}

// GetOwned retrieves a product and verifies it belongs to the given store.
func (s *ProductService) GetOwned(storeID, productID string) (*models.Product, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.StoreID != storeID {
		return nil, ErrNotStoreOwner
	}
	return product, nil
}

// Create adds a product to the store and bumps the denormalized counter.
// The offer-price rule is checked here, not in the schema.
func (s *ProductService) Create(storeID string, product *models.Product) error {
	if err := validateOffer(product); err != nil {
		return err
	}
	product.StoreID = storeID

	if err := s.repo.Create(product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	if err := s.storeRepo.IncrementProductCount(storeID, 1); err != nil {
		log.Warn().Err(err).Str("store_id", storeID).Msg("product counter update failed")
	}
	return nil
}

// Update modifies an existing product of the store.
func (s *ProductService) Update(storeID string, product *models.Product) (*models.Product, error) {
	existing, err := s.GetOwned(storeID, product.ID)
	if err != nil {
		return nil, err
	}
	if err := validateOffer(product); err != nil {
		return nil, err
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.OfferPrice = product.OfferPrice
	existing.Stock = product.Stock

	if err := s.repo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return existing, nil
}

// Delete removes a product, its image references and, best effort, the files
// on the media host, then decrements the store counter.
func (s *ProductService) Delete(ctx context.Context, storeID, productID string) error {
	product, err := s.GetOwned(storeID, productID)
	if err != nil {
		return err
	}

	for _, img := range product.Images {
		if err := s.media.Delete(ctx, img.ExternalID); err != nil {
			log.Warn().Err(err).Str("external_id", img.ExternalID).
				Msg("media host deletion failed, reference removed anyway")
		}
	}

	if err := s.repo.Delete(productID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if err := s.storeRepo.IncrementProductCount(storeID, -1); err != nil {
		log.Warn().Err(err).Str("store_id", storeID).Msg("product counter update failed")
	}
	return nil
}

// AddImages uploads files to the media host and stores the returned
// {url, external_id} references.
func (s *ProductService) AddImages(ctx context.Context, storeID, productID string, files []io.Reader) ([]models.ProductImage, error) {
	if _, err := s.GetOwned(storeID, productID); err != nil {
		return nil, err
	}

	images := make([]models.ProductImage, 0, len(files))
	for _, file := range files {
		imageURL, externalID, err := s.media.Upload(ctx, file)
		if err != nil {
			return images, fmt.Errorf("failed to upload image: %w", err)
		}
		image := models.ProductImage{
			ProductID:  productID,
			URL:        imageURL,
			ExternalID: externalID,
		}
		if err := s.repo.AddImage(&image); err != nil {
			return images, err
		}
		images = append(images, image)
	}
	return images, nil
}

// DeleteImage removes one image from the media host and drops its reference.
func (s *ProductService) DeleteImage(ctx context.Context, storeID, productID, imageID string) error {
	if _, err := s.GetOwned(storeID, productID); err != nil {
		return err
	}

	image, err := s.repo.GetImage(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if image.ProductID != productID {
		return ErrNotStoreOwner
	}

	if err := s.media.Delete(ctx, image.ExternalID); err != nil {
		return fmt.Errorf("failed to delete image from media host: %w", err)
	}
	return s.repo.DeleteImage(imageID)
}

// GetPublic retrieves a product for a public catalog read and records the
// view. Counter failures never break the read.
func (s *ProductService) GetPublic(storeID, productID string) (*models.Product, error) {
	product, err := s.GetOwned(storeID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViews(productID); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("view counter update failed")
	}
	return product, nil
}

// ContactLink records a contact click and returns the prefilled WhatsApp deep
// link for the store's phone.
func (s *ProductService) ContactLink(storeID, productID string) (string, error) {
	product, err := s.GetOwned(storeID, productID)
	if err != nil {
		return "", err
	}
	store, err := s.storeRepo.GetByID(storeID)
	if err != nil {
		return "", err
	}

	if err := s.repo.IncrementContactClicks(productID); err != nil {
		log.Warn().Err(err).Str("product_id", productID).Msg("contact counter update failed")
	}

	text := fmt.Sprintf("Hola! Vi tu producto %q en %s y me interesa.", product.Name, store.Name)
	phone := nonDigits.ReplaceAllString(store.WhatsAppPhone, "")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(text)), nil
}

func validateOffer(product *models.Product) error {
	if product.OfferPrice != nil && *product.OfferPrice >= product.Price {
		return ErrInvalidOfferPrice
	}
	return nil
}
