package serverutils

import (
	"strings"

	"notekeeper-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userIdKey = "user_id"

type BearerResolver interface {
	ResolveBearer(tokenString string) (uuid.UUID, error)
}

// JwtMiddleware resolves the bearer token and stores the caller's id in Locals.
func JwtMiddleware(resolver BearerResolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		scheme, tokenStr, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			return apperr.ErrUnauthorized
		}

		userId, err := resolver.ResolveBearer(strings.TrimSpace(tokenStr))
		if err != nil {
			return apperr.ErrUnauthorized
		}

		ctx.Locals(userIdKey, userId)
		return ctx.Next()
	}
}

// UserID returns the id JwtMiddleware stored for this request.
func UserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, ok := ctx.Locals(userIdKey).(uuid.UUID)
	if !ok || userId == uuid.Nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return userId, nil
}
