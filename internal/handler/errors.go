package handler

import (
	"errors"

	"go-wigstore-api/internal/cart"
	"go-wigstore-api/internal/middleware"
	"go-wigstore-api/internal/query"
	"go-wigstore-api/internal/service"
	"go-wigstore-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respond maps service errors onto status codes. Anything unrecognised is
// logged and hidden behind a generic 500.
func respond(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logger.WithCtx(c.UserContext()).Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, query.ErrInvalidQuery),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrInvalidQuantity):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrSessionReplaced):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrOrderNotCancellable),
		errors.Is(err, service.ErrInvalidTransition):
		return fiber.StatusConflict
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// actor builds the audit identity from the locals set by RequireAuth.
func actor(c *fiber.Ctx) service.Actor {
	a := service.Actor{}
	if v, ok := c.Locals(middleware.LocalUserID).(string); ok {
		a.ID = v
	}
	if v, ok := c.Locals(middleware.LocalUserName).(string); ok {
		a.Name = v
	}
	if v, ok := c.Locals(middleware.LocalUserEmail).(string); ok {
		a.Email = v
	}
	if a.ID == "" {
		return service.System
	}
	return a
}

// idParam reads a uuid from the route, falling back to ?id=.
func idParam(c *fiber.Ctx) (uuid.UUID, bool) {
	raw := c.Params("id")
	if raw == "" {
		raw = c.Query("id")
	}
	id, err := uuid.Parse(raw)
	return id, err == nil
}
