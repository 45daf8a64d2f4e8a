package repositories

import (
	"fmt"
	"sync"
	"time"

	"catalogo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MockResetCodeRepository is an in-memory implementation of
// ResetCodeRepository.
type MockResetCodeRepository struct {
	codes map[string]models.ResetCode
	mu    sync.RWMutex
}

// NewMockResetCodeRepository creates a new instance of MockResetCodeRepository.
func NewMockResetCodeRepository() *MockResetCodeRepository {
	return &MockResetCodeRepository{
		codes: make(map[string]models.ResetCode),
	}
}

// Create adds a new reset code.
func (r *MockResetCodeRepository) Create(code *models.ResetCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	r.codes[code.ID] = *code
	return nil
}

// GetLatestByEmail returns the most recently issued code for the email.
func (r *MockResetCodeRepository) GetLatestByEmail(email string) (*models.ResetCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.ResetCode
	for id := range r.codes {
		c := r.codes[id]
		if c.Email != email {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			cc := c
			latest = &cc
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("reset code for %s: %w", email, gorm.ErrRecordNotFound)
	}
	return latest, nil
}

// Update modifies an existing reset code.
func (r *MockResetCodeRepository) Update(code *models.ResetCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.codes[code.ID]; !ok {
		return fmt.Errorf("reset code with ID %s not found for update: %w", code.ID, gorm.ErrRecordNotFound)
	}
	r.codes[code.ID] = *code
	return nil
}

// DeleteExpired removes codes whose expiry is before the given instant.
func (r *MockResetCodeRepository) DeleteExpired(before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, c := range r.codes {
		if c.ExpiresAt.Before(before) {
			delete(r.codes, id)
			removed++
		}
	}
	return removed, nil
}
