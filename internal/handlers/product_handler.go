package handlers

import (
	"errors"
	"io"

	"catalogo/internal/models"
	"catalogo/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ProductHandler handles the vendor-facing catalog routes.
type ProductHandler struct {
	productService *services.ProductService
	storeService   *services.StoreService
	validate       *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService *services.ProductService, storeService *services.StoreService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storeService:   storeService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the product routes. The group must already require
// authentication.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Post("/:id/images", h.HandleUploadImages)
	productRoutes.Delete("/:id/images/:imageID", h.HandleDeleteImage)
}

// callerStore resolves the authenticated vendor's store.
func (h *ProductHandler) callerStore(c *fiber.Ctx) (string, error) {
	userID, _ := c.Locals("user_id").(string)
	store, err := h.storeService.GetByUser(userID)
	if err != nil {
		return "", err
	}
	return store.ID, nil
}

// ProductRequest represents the request body for product create/update.
type ProductRequest struct {
	Name        string   `json:"name" validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	OfferPrice  *float64 `json:"offer_price" validate:"omitempty,gt=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
}

// HandleListProducts lists the caller's products.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	storeID, err := h.callerStore(c)
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Store not found")
	}

	products, err := h.productService.ListByStore(storeID)
	if err != nil {
		log.Error().Err(err).Str("store_id", storeID).Msg("failed to list products")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve products")
	}
	return respondData(c, fiber.StatusOK, products)
}

// HandleGetProduct returns one of the caller's products.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	storeID, err := h.callerStore(c)
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Store not found")
	}

	product, err := h.productService.GetOwned(storeID, c.Params("id"))
	if err != nil {
		return h.productError(c, err, "Could not retrieve product")
	}
	return respondData(c, fiber.StatusOK, product)
}

// HandleCreateProduct creates a product in the caller's store.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	storeID, err := h.callerStore(c)
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Store not found")
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		OfferPrice:  req.OfferPrice,
		Stock:       req.Stock,
	}
	if err := h.productService.Create(storeID, product); err != nil {
		if errors.Is(err, services.ErrInvalidOfferPrice) {
			return respondError(c, fiber.StatusBadRequest, "Offer price must be lower than the price")
		}
		log.Error().Err(err).Str("store_id", storeID).Msg("failed to create product")
		return respondError(c, fiber.StatusInternalServerError, "Could not create product")
	}
	return respondData(c, fiber.StatusCreated, product)
}

// HandleUpdateProduct updates one of the caller's products.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	storeID, err := h.callerStore(c)
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Store not found")
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	product := &models.Product{
		ID:          c.Params("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		OfferPrice:  req.OfferPrice,
		Stock:       req.Stock,
	}
	updated, err := h.productService.Update(storeID, product)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOfferPrice) {
			return respondError(c, fiber.StatusBadRequest, "Offer price must be lower than the price")
		}
		return h.productError(c, err, "Could not update product")
	}
	return respondData(c, fiber.StatusOK, updated)
}

// HandleDeleteProduct deletes one of the caller's products.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	storeID, err := h.callerStore(c)
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Store not found")
	}

	if err := h.productService.Delete(c.UserContext(), storeID, c.Params("id")); err != nil {
		return h.productError(c, err, "Could not delete product")
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"message": "Product deleted successfully"})
}

// HandleUploadImages uploads one or more images from a multipart form to the
// media host and attaches the references to the product.
func (h *ProductHandler) HandleUploadImages(c *fiber.Ctx) error {
	storeID, err := h.callerStore(c)
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Store not found")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Expected multipart form data")
	}
	fileHeaders := form.File["images"]
	if len(fileHeaders) == 0 {
		return respondError(c, fiber.StatusBadRequest, "At least one image file is required")
	}

	files := make([]io.Reader, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			return respondError(c, fiber.StatusBadRequest, "Could not read uploaded file")
		}
		defer f.Close()
		files = append(files, f)
	}

	images, err := h.productService.AddImages(c.UserContext(), storeID, c.Params("id"), files)
	if err != nil {
		return h.productError(c, err, "Could not upload images")
	}
	return respondData(c, fiber.StatusCreated, images)
}

// HandleDeleteImage removes one image from the media host and the product.
func (h *ProductHandler) HandleDeleteImage(c *fiber.Ctx) error {
	storeID, err := h.callerStore(c)
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Store not found")
	}

	err = h.productService.DeleteImage(c.UserContext(), storeID, c.Params("id"), c.Params("imageID"))
	if err != nil {
		return h.productError(c, err, "Could not delete image")
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"message": "Image deleted successfully"})
}

// productError maps service errors onto the envelope.
func (h *ProductHandler) productError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return respondError(c, fiber.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrNotStoreOwner):
		return respondError(c, fiber.StatusForbidden, "Product belongs to another store")
	}
	log.Error().Err(err).Msg(fallback)
	return respondError(c, fiber.StatusInternalServerError, fallback)
}
