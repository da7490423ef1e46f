package identity

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ContextKey is where the bearer middleware stores the verified *jwt.Token.
const ContextKey = "user"

var ErrNoIdentity = errors.New("no verified identity in context")

// GetClaims returns the verified claims attached by the bearer middleware.
func GetClaims(c *fiber.Ctx) (*auth.Claims, error) {
	token, ok := c.Locals(ContextKey).(*jwt.Token)
	if !ok || token == nil || !token.Valid {
		return nil, ErrNoIdentity
	}

	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrNoIdentity
	}
	return claims, nil
}

// GetSubjectID returns the token subject as a UUID. The subject only ever
// comes from verified claims, never from path or body parameters.
func GetSubjectID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.Subject)
}

// GetCPID is GetSubjectID restricted to tokens issued to channel partners.
func GetCPID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.Role != auth.RoleCP {
		return uuid.Nil, ErrNoIdentity
	}
	return uuid.Parse(claims.Subject)
}
