package serverutils

import (
	"errors"

	"ai-docflow-be/internal/flow"
	"ai-docflow-be/pkg/agent"
	"ai-docflow-be/pkg/ingestion"
	"ai-docflow-be/pkg/loader"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors onto HTTP statuses so
// controllers can return errors unwrapped.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := statusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

func statusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case flow.IsValidationError(err):
		return fiber.StatusBadRequest
	case loader.IsUnsupportedFormat(err), errors.Is(err, ingestion.ErrEmptyDocument):
		return fiber.StatusUnprocessableEntity
	case agent.IsInvocationError(err):
		return fiber.StatusBadGateway
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}
