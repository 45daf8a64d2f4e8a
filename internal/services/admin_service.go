package services

import (
	"errors"
	"fmt"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"gorm.io/gorm"
)

// AdminService handles platform oversight: listings and activation toggles.
type AdminService struct {
	users  repositories.UserRepository
	stores repositories.StoreRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(users repositories.UserRepository, stores repositories.StoreRepository) *AdminService {
	return &AdminService{
		users:  users,
		stores: stores,
	}
}

// ListUsers returns every platform account.
func (s *AdminService) ListUsers() ([]models.User, error) {
	return s.users.GetAll()
}

// ListStores returns every storefront, active or not.
func (s *AdminService) ListStores() ([]models.Store, error) {
	return s.stores.GetAll()
}

// SetUserActive toggles whether an account may log in.
func (s *AdminService) SetUserActive(id string, active bool) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Active = active
	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return user, nil
}

// SetStoreActive toggles whether a storefront is publicly reachable.
func (s *AdminService) SetStoreActive(id string, active bool) (*models.Store, error) {
	store, err := s.stores.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	store.Active = active
	if err := s.stores.Update(store); err != nil {
		return nil, fmt.Errorf("failed to update store %s: %w", id, err)
	}
	return store, nil
}
