package repositories

import (
	"fmt"

	"catalogo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create creates a new store in the database.
func (r *GORMStoreRepository) Create(store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	if err := r.db.Create(store).Error; err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	return nil
}

// GetByID retrieves a single store by its ID.
func (r *GORMStoreRepository) GetByID(id string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("store with ID %s: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get store by ID %s: %w", id, err)
	}
	return &store, nil
}

// GetByUserID retrieves the store owned by the given user.
func (r *GORMStoreRepository) GetByUserID(userID string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("store for user %s: %w", userID, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get store for user %s: %w", userID, err)
	}
	return &store, nil
}

// GetBySlug retrieves a single store by its slug.
func (r *GORMStoreRepository) GetBySlug(slug string) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("store with slug %s: %w", slug, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get store by slug %s: %w", slug, err)
	}
	return &store, nil
}

// SlugTaken reports whether a store already uses the given slug.
func (r *GORMStoreRepository) SlugTaken(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Store{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug %s: %w", slug, err)
	}
	return count > 0, nil
}

// Update updates an existing store.
func (r *GORMStoreRepository) Update(store *models.Store) error {
	res := r.db.Save(store)
	if res.Error != nil {
		return fmt.Errorf("failed to update store: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store with ID %s not found for update: %w", store.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// IncrementProductCount adjusts the denormalized product counter. The update
// is a single SQL expression; counter drift under interleaved create/delete
// is accepted.
func (r *GORMStoreRepository) IncrementProductCount(id string, delta int) error {
	res := r.db.Model(&models.Store{}).Where("id = ?", id).
		UpdateColumn("product_count", gorm.Expr("product_count + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to adjust product count for store %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("store with ID %s not found for counter update: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// GetAll retrieves all stores from the database.
func (r *GORMStoreRepository) GetAll() ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.Order("created_at desc").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("failed to get all stores: %w", err)
	}
	return stores, nil
}
