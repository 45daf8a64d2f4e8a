package repositories

import "catalogo/internal/models"

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetByStore(storeID string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	IncrementViews(id string) error
	IncrementContactClicks(id string) error
	AddImage(image *models.ProductImage) error
	GetImage(id string) (*models.ProductImage, error)
	DeleteImage(id string) error
}
