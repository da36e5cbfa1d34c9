package api

import (
	"errors"

	"github.com/carlinhosvolpony-tech/RodadaDgrau/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps the store error taxonomy to HTTP statuses. Validation
// failures are 422 (retry with corrected input), stale-view failures are
// 409 (refetch and reconcile), unknown errors surface as a store problem.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusServiceUnavailable
	switch {
	case errors.Is(err, store.ErrIncompleteSelection),
		errors.Is(err, store.ErrInvalidAmount),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrBettingClosed):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, store.ErrInsufficientBalance),
		errors.Is(err, store.ErrAlreadyResolved),
		errors.Is(err, store.ErrConcurrentModification):
		status = fiber.StatusConflict
	case errors.Is(err, store.ErrNoEligibleTickets):
		status = fiber.StatusNotFound
	case errors.Is(err, store.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, store.ErrUnauthorized):
		status = fiber.StatusForbidden
	default:
		zap.L().Error("Unhandled API error", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
