package controllers

import (
	"errors"

	"eschool_go/services"

	"github.com/gofiber/fiber/v2"
)

// statusForServiceError maps the domain error taxonomy onto HTTP statuses:
// ValidationError -> 400, ErrNotFound -> 404, ErrReferenced -> 409, anything
// else -> 500.
func statusForServiceError(err error) int {
	switch {
	case services.IsValidationError(err):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrReferenced):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func respondServiceError(c *fiber.Ctx, err error, msg string) error {
	return c.Status(statusForServiceError(err)).JSON(fiber.Map{"error": msg})
}
