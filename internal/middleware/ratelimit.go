package middleware

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimit returns a middleware backed by a single shared token bucket.
// Used on the password-recovery routes; the per-email 5-minute rule lives in
// the reset service on top of this.
func RateLimit(r rate.Limit, burst int) fiber.Handler {
	limiter := rate.NewLimiter(r, burst)
	return func(c *fiber.Ctx) error {
		if !limiter.Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Too many requests, please try again later",
			})
		}
		return c.Next()
	}
}
