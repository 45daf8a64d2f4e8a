package repositories

import (
	"fmt"
	"sync"

	"catalogo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockStoreRepository is an in-memory implementation of StoreRepository.
type MockStoreRepository struct {
	stores map[string]models.Store
	mu     sync.RWMutex
}

// NewMockStoreRepository creates a new instance of MockStoreRepository.
func NewMockStoreRepository() *MockStoreRepository {
	return &MockStoreRepository{
		stores: make(map[string]models.Store),
	}
}

// Create adds a new store.
func (r *MockStoreRepository) Create(store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	for _, s := range r.stores {
		if s.Slug == store.Slug {
			return fmt.Errorf("store with slug %s already exists", store.Slug)
		}
	}
	r.stores[store.ID] = *store
	return nil
}

// GetByID retrieves a store by ID.
func (r *MockStoreRepository) GetByID(id string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[id]
	if !ok {
		return nil, fmt.Errorf("store with ID %s not found: %w", id, gorm.ErrRecordNotFound)
	}
	return &s, nil
}

// GetByUserID retrieves the store owned by the given user.
func (r *MockStoreRepository) GetByUserID(userID string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id := range r.stores {
		s := r.stores[id]
		if s.UserID == userID {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("store for user %s not found: %w", userID, gorm.ErrRecordNotFound)
}

// GetBySlug retrieves a store by slug.
func (r *MockStoreRepository) GetBySlug(slug string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id := range r.stores {
		s := r.stores[id]
		if s.Slug == slug {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("store with slug %s not found: %w", slug, gorm.ErrRecordNotFound)
}

// SlugTaken reports whether any store already uses the slug.
func (r *MockStoreRepository) SlugTaken(slug string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.stores {
		if s.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// Update modifies an existing store.
func (r *MockStoreRepository) Update(store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[store.ID]; !ok {
		return fmt.Errorf("store with ID %s not found for update: %w", store.ID, gorm.ErrRecordNotFound)
	}
	r.stores[store.ID] = *store
	return nil
}

// IncrementProductCount adjusts the denormalized product counter.
func (r *MockStoreRepository) IncrementProductCount(id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores[id]
	if !ok {
		return fmt.Errorf("store with ID %s not found: %w", id, gorm.ErrRecordNotFound)
	}
	s.ProductCount += delta
	r.stores[id] = s
	return nil
}

// GetAll retrieves all stores.
func (r *MockStoreRepository) GetAll() ([]models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stores := make([]models.Store, 0, len(r.stores))
	for id := range r.stores {
		stores = append(stores, r.stores[id])
	}
	return stores, nil
}
