package handlers

import (
	"errors"

	"catalogo/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles the platform back-office routes.
type AdminHandler struct {
	adminService *services.AdminService
	validate     *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the admin routes. The group must already require
// authentication plus the admin role.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Get("/users", h.HandleListUsers)
	adminRoutes.Get("/stores", h.HandleListStores)
	adminRoutes.Patch("/users/:id/active", h.HandleToggleUser)
	adminRoutes.Patch("/stores/:id/active", h.HandleToggleStore)
}

// HandleListUsers lists every platform account.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve users")
	}
	return respondData(c, fiber.StatusOK, users)
}

// HandleListStores lists every storefront.
func (h *AdminHandler) HandleListStores(c *fiber.Ctx) error {
	stores, err := h.adminService.ListStores()
	if err != nil {
		log.Error().Err(err).Msg("failed to list stores")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve stores")
	}
	return respondData(c, fiber.StatusOK, stores)
}

// ToggleRequest represents the request body for activation toggles.
type ToggleRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// HandleToggleUser enables or disables an account.
func (h *AdminHandler) HandleToggleUser(c *fiber.Ctx) error {
	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user, err := h.adminService.SetUserActive(c.Params("id"), *req.Active)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return respondError(c, fiber.StatusNotFound, "User not found")
		}
		log.Error().Err(err).Str("user_id", c.Params("id")).Msg("failed to toggle user")
		return respondError(c, fiber.StatusInternalServerError, "Could not update user")
	}
	return respondData(c, fiber.StatusOK, user)
}

// HandleToggleStore enables or disables a storefront.
func (h *AdminHandler) HandleToggleStore(c *fiber.Ctx) error {
	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	store, err := h.adminService.SetStoreActive(c.Params("id"), *req.Active)
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			return respondError(c, fiber.StatusNotFound, "Store not found")
		}
		log.Error().Err(err).Str("store_id", c.Params("id")).Msg("failed to toggle store")
		return respondError(c, fiber.StatusInternalServerError, "Could not update store")
	}
	return respondData(c, fiber.StatusOK, store)
}
