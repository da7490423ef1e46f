package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/apperrors"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// respondError maps a service error onto its status code. Server errors are
// logged and reported, and their body only ever carries the fallback.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	status := apperrors.StatusCode(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error(fallback,
			"request_id", requestID(c),
			"action", c.Method()+" "+c.Route().Path,
			"path", c.Path(),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error: true, Message: apperrors.PublicMessage(err, fallback),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}
