package services

import (
	"errors"
	"fmt"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ErrStoreNotFound is returned when no matching (or no active) store exists.
var ErrStoreNotFound = errors.New("store not found")

// StoreService handles business logic for storefronts.
type StoreService struct {
	repo repositories.StoreRepository
}

// NewStoreService creates a new StoreService.
func NewStoreService(repo repositories.StoreRepository) *StoreService {
	return &StoreService{
		repo: repo,
	}
}

// Provision creates the storefront for a freshly registered vendor. The slug
// is derived from the display name; collisions get a numeric suffix.
func (s *StoreService) Provision(userID, name, phone string) (*models.Store, error) {
	storeSlug, err := s.generateSlug(name)
	if err != nil {
		return nil, err
	}

	store := &models.Store{
		UserID:        userID,
		Name:          name,
		Slug:          storeSlug,
		WhatsAppPhone: phone,
		Active:        true,
	}
	if err := s.repo.Create(store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return store, nil
}

// generateSlug builds a URL-safe slug from the display name and retries with
// -2, -3, ... until the registry accepts it.
func (s *StoreService) generateSlug(name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "tienda"
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := s.repo.SlugTaken(candidate)
		if err != nil {
			return "", fmt.Errorf("failed to generate slug for %q: %w", name, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// GetByUser retrieves the caller's own store.
func (s *StoreService) GetByUser(userID string) (*models.Store, error) {
	store, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

// Update changes the mutable fields of the caller's store. The slug stays
// fixed at its provisioned value so published catalog links keep working.
func (s *StoreService) Update(userID, name, description, phone string) (*models.Store, error) {
	store, err := s.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		store.Name = name
	}
	store.Description = description
	if phone != "" {
		store.WhatsAppPhone = phone
	}

	if err := s.repo.Update(store); err != nil {
		return nil, fmt.Errorf("failed to update store: %w", err)
	}
	return store, nil
}

// GetPublicBySlug resolves a public catalog page. Deactivated stores are
// indistinguishable from missing ones.
func (s *StoreService) GetPublicBySlug(storeSlug string) (*models.Store, error) {
	store, err := s.repo.GetBySlug(storeSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if !store.Active {
		return nil, ErrStoreNotFound
	}
	return store, nil
}
