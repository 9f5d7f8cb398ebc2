package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// Categories reported in the error envelope.
const (
	CategoryValidation      = "validation"
	CategoryUnauthorized    = "unauthorized"
	CategoryNotFound        = "not_found"
	CategoryConflict        = "conflict"
	CategoryStoreFailure    = "store_failure"
	CategoryTooManyRequests = "too_many_requests"
)

type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type ErrorBody struct {
	Success  bool   `json:"success"`
	Code     int    `json:"code"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

func SuccessResponse[T any](message string, data T) *BaseResponse[T] {
	return &BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) *ErrorBody {
	return &ErrorBody{
		Success:  false,
		Code:     code,
		Category: categoryForStatus(code),
		Message:  message,
	}
}

func categoryForStatus(code int) string {
	switch code {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
		return CategoryValidation
	case fiber.StatusUnauthorized, fiber.StatusForbidden:
		return CategoryUnauthorized
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return CategoryNotFound
	case fiber.StatusConflict:
		return CategoryConflict
	case fiber.StatusTooManyRequests:
		return CategoryTooManyRequests
	default:
		return CategoryStoreFailure
	}
}
