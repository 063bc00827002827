package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/procline/error_service/internal/errs"
)

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

// create a generic response function for success
func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}

// ResponseFromError maps the errs taxonomy onto HTTP status codes.
func ResponseFromError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return ResponseError(ctx, fiber.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return ResponseError(ctx, fiber.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return ResponseError(ctx, fiber.StatusConflict, err.Error())
	default:
		return ResponseError(ctx, fiber.StatusInternalServerError, err.Error())
	}
}
