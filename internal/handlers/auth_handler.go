package handlers

import (
	"errors"

	"catalogo/internal/models"
	"catalogo/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login and the password-recovery flow.
type AuthHandler struct {
	authService  *services.AuthService
	resetService *services.ResetService
	validate     *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, resetService *services.ResetService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
		validate:     validator.New(),
	}
}

// RegisterRoutes registers the public auth routes. The recovery endpoints sit
// behind the shared rate limiter in addition to the per-email issuance rule.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, recoveryLimiter fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/forgot-password", recoveryLimiter, h.HandleForgotPassword)
	authRoutes.Post("/verify-code", recoveryLimiter, h.HandleVerifyCode)
	authRoutes.Post("/reset-password", recoveryLimiter, h.HandleResetPassword)
}

// RegisterRequest represents the request body for vendor registration.
type RegisterRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,min=8,max=20"`
	Password  string `json:"password" validate:"required,min=6"`
	StoreName string `json:"store_name" validate:"omitempty,min=3,max=100"`
}

// HandleRegister registers a vendor and auto-provisions their storefront.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}
	store, err := h.authService.RegisterVendor(user, req.StoreName)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return respondError(c, fiber.StatusConflict, "Email already registered")
		}
		log.Error().Err(err).Msg("registration failed")
		return respondError(c, fiber.StatusInternalServerError, "Could not register user")
	}

	return respondData(c, fiber.StatusCreated, fiber.Map{
		"user":  user,
		"store": store,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin authenticates a user and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrAccountDisabled) {
			return respondError(c, fiber.StatusForbidden, "Account is disabled")
		}
		return respondError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	return respondData(c, fiber.StatusOK, fiber.Map{"token": token})
}

// ForgotPasswordRequest starts the recovery flow.
type ForgotPasswordRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Channel string `json:"channel" validate:"required,oneof=email whatsapp"`
}

// HandleForgotPassword issues a recovery code and queues its delivery.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.resetService.RequestCode(req.Email, req.Channel); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return respondError(c, fiber.StatusNotFound, "Email is not registered")
		case errors.Is(err, services.ErrResetRateLimited):
			return respondError(c, fiber.StatusTooManyRequests, "A code was sent recently, try again in a few minutes")
		case errors.Is(err, services.ErrInvalidChannel), errors.Is(err, services.ErrNoPhoneOnFile):
			return respondError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Error().Err(err).Msg("failed to issue reset code")
		return respondError(c, fiber.StatusInternalServerError, "Could not issue recovery code")
	}

	return respondData(c, fiber.StatusOK, fiber.Map{"message": "Recovery code sent"})
}

// VerifyCodeRequest checks a recovery code without changing the password.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// HandleVerifyCode validates a recovery code. Every call counts as an
// attempt.
func (h *AuthHandler) HandleVerifyCode(c *fiber.Ctx) error {
	var req VerifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.resetService.VerifyCode(req.Email, req.Code); err != nil {
		if errors.Is(err, services.ErrInvalidCode) {
			return respondError(c, fiber.StatusBadRequest, "Invalid or expired code")
		}
		log.Error().Err(err).Msg("code verification failed")
		return respondError(c, fiber.StatusInternalServerError, "Could not verify code")
	}

	return respondData(c, fiber.StatusOK, fiber.Map{"message": "Code is valid"})
}

// ResetPasswordRequest finishes the recovery flow.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// HandleResetPassword changes the password after a final guard re-check and
// consumes the code.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.resetService.ResetPassword(req.Email, req.Code, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCode) {
			return respondError(c, fiber.StatusBadRequest, "Invalid or expired code")
		}
		log.Error().Err(err).Msg("password reset failed")
		return respondError(c, fiber.StatusInternalServerError, "Could not reset password")
	}

	return respondData(c, fiber.StatusOK, fiber.Map{"message": "Password updated"})
}
