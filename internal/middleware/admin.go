package middleware

import (
	"crypto/subtle"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired admits a request when either:
// 1. X-Admin-Token matches the configured admin token, or
// 2. the bearer token is valid and carries role ADMIN.
func AdminRequired(codec *auth.TokenCodec, adminToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if adminToken != "" {
			if header := c.Get("X-Admin-Token"); header != "" &&
				subtle.ConstantTimeCompare([]byte(header), []byte(adminToken)) == 1 {
				c.Locals("admin_via", "token")
				return c.Next()
			}
		}

		raw, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		claims, err := codec.Verify(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid or expired token",
			})
		}

		if claims.Role != auth.RoleAdmin {
			slog.Warn("admin route denied", "path", c.Path(), "subject_id", claims.Subject, "role", claims.Role)
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}

		c.Locals("admin_via", "jwt")
		return c.Next()
	}
}
