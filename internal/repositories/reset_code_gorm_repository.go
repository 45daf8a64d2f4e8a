package repositories

import (
	"fmt"
	"time"

	"catalogo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMResetCodeRepository is a GORM implementation of ResetCodeRepository.
type GORMResetCodeRepository struct {
	db *gorm.DB
}

// NewGORMResetCodeRepository creates a new instance of GORMResetCodeRepository.
func NewGORMResetCodeRepository(db *gorm.DB) *GORMResetCodeRepository {
	return &GORMResetCodeRepository{
		db: db,
	}
}

// Create persists a freshly issued code.
func (r *GORMResetCodeRepository) Create(code *models.ResetCode) error {
	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	if err := r.db.Create(code).Error; err != nil {
		return fmt.Errorf("failed to create reset code: %w", err)
	}
	return nil
}

// GetLatestByEmail returns the most recently issued code for the email.
// Older codes stay in place until the janitor removes them; only the latest
// one matters for verification and for the issuance rate limit.
func (r *GORMResetCodeRepository) GetLatestByEmail(email string) (*models.ResetCode, error) {
	var code models.ResetCode
	if err := r.db.Where("email = ?", email).Order("created_at desc").
		First(&code).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("reset code for %s: %w", email, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get reset code for %s: %w", email, err)
	}
	return &code, nil
}

// Update persists attempt/consumed mutations.
func (r *GORMResetCodeRepository) Update(code *models.ResetCode) error {
	res := r.db.Save(code)
	if res.Error != nil {
		return fmt.Errorf("failed to update reset code: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("reset code with ID %s not found for update: %w", code.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteExpired hard-deletes codes whose expiry is before the given instant.
// Called from the background janitor, never from request handling.
func (r *GORMResetCodeRepository) DeleteExpired(before time.Time) (int64, error) {
	res := r.db.Unscoped().Where("expires_at < ?", before).Delete(&models.ResetCode{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired reset codes: %w", res.Error)
	}
	return res.RowsAffected, nil
}
