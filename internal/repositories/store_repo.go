package repositories

import "catalogo/internal/models"

// StoreRepository defines the interface for storefront data access.
type StoreRepository interface {
	Create(store *models.Store) error
	GetByID(id string) (*models.Store, error)
	GetByUserID(userID string) (*models.Store, error)
	GetBySlug(slug string) (*models.Store, error)
	SlugTaken(slug string) (bool, error)
	Update(store *models.Store) error
	IncrementProductCount(id string, delta int) error
	GetAll() ([]models.Store, error)
}
