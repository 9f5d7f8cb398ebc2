package serverutils

import (
	"errors"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders any error returned by a handler as the error envelope.
// Store failures are logged with their cause and reported generically.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		status := statusForKind(apperr.KindOf(err))
		if status == fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err,
			})
		}

		return ctx.Status(status).JSON(ErrorResponse(status, apperr.PublicMessage(err)))
	}
}

// ErrorHandlerMiddleware applies ErrorHandler to everything registered after it,
// including unmatched routes.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	handle := ErrorHandler(log)
	return func(ctx *fiber.Ctx) error {
		if err := ctx.Next(); err != nil {
			return handle(ctx, err)
		}
		return nil
	}
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
