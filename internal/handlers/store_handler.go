package handlers

import (
	"errors"

	"catalogo/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// StoreHandler handles the vendor-facing storefront routes.
type StoreHandler struct {
	storeService *services.StoreService
	validate     *validator.Validate
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(storeService *services.StoreService) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the store routes. The group must already require
// authentication.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Get("/me", h.HandleGetOwnStore)
	storeRoutes.Put("/me", h.HandleUpdateOwnStore)
}

// HandleGetOwnStore returns the caller's storefront.
func (h *StoreHandler) HandleGetOwnStore(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	store, err := h.storeService.GetByUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			return respondError(c, fiber.StatusNotFound, "Store not found")
		}
		log.Error().Err(err).Str("user_id", userID).Msg("failed to load store")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve store")
	}
	return respondData(c, fiber.StatusOK, store)
}

// UpdateStoreRequest represents the request body for store updates. The slug
// is not updatable.
type UpdateStoreRequest struct {
	Name          string `json:"name" validate:"omitempty,min=3,max=100"`
	Description   string `json:"description" validate:"omitempty,max=500"`
	WhatsAppPhone string `json:"whatsapp_phone" validate:"omitempty,min=8,max=20"`
}

// HandleUpdateOwnStore updates the caller's storefront.
func (h *StoreHandler) HandleUpdateOwnStore(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req UpdateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	store, err := h.storeService.Update(userID, req.Name, req.Description, req.WhatsAppPhone)
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			return respondError(c, fiber.StatusNotFound, "Store not found")
		}
		log.Error().Err(err).Str("user_id", userID).Msg("failed to update store")
		return respondError(c, fiber.StatusInternalServerError, "Could not update store")
	}
	return respondData(c, fiber.StatusOK, store)
}
