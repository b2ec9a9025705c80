package handlers

import (
	"errors"

	"bidmaster/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors to HTTP responses. Every failure names
// the precondition that failed so the client can render an actionable
// message.
func respondError(c *fiber.Ctx, err error) error {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"code":    "validation_error",
			"field":   ve.Field,
			"error":   ve.Message,
		})
	case errors.Is(err, models.ErrAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Resource already exists",
			"code":    "already_exists",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Resource not found",
			"code":    "not_found",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrInsufficientBalance):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Insufficient wallet balance",
			"code":    "insufficient_balance",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrMissingPaymentApp):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Payment app selection required",
			"code":    "missing_payment_app",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrProductUnavailable):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product is not available for purchase",
			"code":    "product_unavailable",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Invalid order state transition",
			"code":    "invalid_transition",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Concurrent modification, please retry",
			"code":    "conflict",
			"error":   err.Error(),
		})
	case errors.Is(err, models.ErrPaymentTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"message": "Payment did not settle in time",
			"code":    "payment_timeout",
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal error",
			"code":    "internal",
			"error":   err.Error(),
		})
	}
}

// currentUserID extracts the authenticated user's ID stored by the JWT
// middleware.
func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
