package handlers

import (
	"errors"

	"catalogo/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// PublicHandler serves the buyer-facing catalog routes. No authentication.
type PublicHandler struct {
	storeService   *services.StoreService
	productService *services.ProductService
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(storeService *services.StoreService, productService *services.ProductService) *PublicHandler {
	return &PublicHandler{
		storeService:   storeService,
		productService: productService,
	}
}

// RegisterRoutes registers the public catalog routes.
func (h *PublicHandler) RegisterRoutes(router fiber.Router) {
	catalogRoutes := router.Group("/catalog")
	catalogRoutes.Get("/:slug", h.HandleGetCatalog)
	catalogRoutes.Get("/:slug/products/:id", h.HandleGetProduct)
	catalogRoutes.Post("/:slug/products/:id/contact", h.HandleContactClick)
}

// HandleGetCatalog returns an active store and its full product list.
func (h *PublicHandler) HandleGetCatalog(c *fiber.Ctx) error {
	store, err := h.storeService.GetPublicBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			return respondError(c, fiber.StatusNotFound, "Store not found")
		}
		log.Error().Err(err).Str("slug", c.Params("slug")).Msg("failed to load catalog")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve catalog")
	}

	products, err := h.productService.ListByStore(store.ID)
	if err != nil {
		log.Error().Err(err).Str("store_id", store.ID).Msg("failed to list catalog products")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve catalog")
	}

	return respondData(c, fiber.StatusOK, fiber.Map{
		"store":    store,
		"products": products,
	})
}

// HandleGetProduct returns a product detail and records the view.
func (h *PublicHandler) HandleGetProduct(c *fiber.Ctx) error {
	store, err := h.storeService.GetPublicBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Store not found")
	}

	product, err := h.productService.GetPublic(store.ID, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) || errors.Is(err, services.ErrNotStoreOwner) {
			return respondError(c, fiber.StatusNotFound, "Product not found")
		}
		log.Error().Err(err).Str("product_id", c.Params("id")).Msg("failed to load product")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve product")
	}
	return respondData(c, fiber.StatusOK, product)
}

// HandleContactClick records a contact click and returns the prefilled
// WhatsApp deep link for the vendor.
func (h *PublicHandler) HandleContactClick(c *fiber.Ctx) error {
	store, err := h.storeService.GetPublicBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Store not found")
	}

	link, err := h.productService.ContactLink(store.ID, c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) || errors.Is(err, services.ErrNotStoreOwner) {
			return respondError(c, fiber.StatusNotFound, "Product not found")
		}
		log.Error().Err(err).Str("product_id", c.Params("id")).Msg("failed to build contact link")
		return respondError(c, fiber.StatusInternalServerError, "Could not build contact link")
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"whatsapp_url": link})
}
