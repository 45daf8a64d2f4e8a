package repositories

import (
	"fmt"
	"sync"

	"catalogo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	images   map[string]models.ProductImage
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
		images:   make(map[string]models.ProductImage),
	}
}

// imagesOf collects the image references of a product. Caller holds the lock.
func (r *MockProductRepository) imagesOf(productID string) []models.ProductImage {
	var imgs []models.ProductImage
	for id := range r.images {
		img := r.images[id]
		if img.ProductID == productID {
			imgs = append(imgs, img)
		}
	}
	return imgs
}

// GetByStore retrieves all products of a store.
func (r *MockProductRepository) GetByStore(storeID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0)
	for id := range r.products {
		p := r.products[id]
		if p.StoreID != storeID {
			continue
		}
		p.Images = r.imagesOf(p.ID)
		products = append(products, p)
	}
	return products, nil
}

// GetByID retrieves a product by ID with its image references.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found: %w", id, gorm.ErrRecordNotFound)
	}
	p.Images = r.imagesOf(p.ID)
	return &p, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, gorm.ErrRecordNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product and its image references.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	delete(r.products, id)
	for imgID, img := range r.images {
		if img.ProductID == id {
			delete(r.images, imgID)
		}
	}
	return nil
}

// IncrementViews bumps the view counter.
func (r *MockProductRepository) IncrementViews(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found: %w", id, gorm.ErrRecordNotFound)
	}
	p.Views++
	r.products[id] = p
	return nil
}

// IncrementContactClicks bumps the contact-click counter.
func (r *MockProductRepository) IncrementContactClicks(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s not found: %w", id, gorm.ErrRecordNotFound)
	}
	p.ContactClicks++
	r.products[id] = p
	return nil
}

// AddImage attaches an image reference to a product.
func (r *MockProductRepository) AddImage(image *models.ProductImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	r.images[image.ID] = *image
	return nil
}

// GetImage retrieves an image reference by ID.
func (r *MockProductRepository) GetImage(id string) (*models.ProductImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	img, ok := r.images[id]
	if !ok {
		return nil, fmt.Errorf("image with ID %s not found: %w", id, gorm.ErrRecordNotFound)
	}
	return &img, nil
}

// DeleteImage removes an image reference.
func (r *MockProductRepository) DeleteImage(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.images[id]; !ok {
		return fmt.Errorf("image with ID %s not found for deletion: %w", id, gorm.ErrRecordNotFound)
	}
	delete(r.images, id)
	return nil
}
