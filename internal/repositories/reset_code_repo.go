package repositories

import (
	"time"

	"catalogo/internal/models"
)

// ResetCodeRepository defines the interface for reset-code data access.
type ResetCodeRepository interface {
	Create(code *models.ResetCode) error
	GetLatestByEmail(email string) (*models.ResetCode, error)
	Update(code *models.ResetCode) error
	DeleteExpired(before time.Time) (int64, error)
}
