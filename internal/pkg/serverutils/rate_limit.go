package serverutils

import (
	"notekeeper-be/internal/pkg/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// RateLimitMiddleware rejects a client IP that has exhausted its bucket with 429.
func RateLimitMiddleware(rl *ratelimit.RateLimiter) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !rl.Allow(ctx.IP()) {
			return ctx.Status(fiber.StatusTooManyRequests).
				JSON(ErrorResponse(fiber.StatusTooManyRequests, "too many requests"))
		}
		return ctx.Next()
	}
}
