package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

const principalKey = "principal"

// Principal is the verified caller of an authenticated request.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// CanModify reports whether the principal owns the resource or is an admin.
func (p *Principal) CanModify(ownerID string) bool {
	return p != nil && (p.IsAdmin || p.UserID == ownerID)
}

// AuthMiddleware verifies the bearer token and stores the Principal.
func AuthMiddleware(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header format")
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(principalKey, &Principal{UserID: claims.UserID, IsAdmin: claims.IsAdmin})
		return c.Next()
	}
}

// RequireAdmin rejects callers without admin rights. It must run after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c fiber.Ctx) error {
		p, err := CurrentPrincipal(c)
		if err != nil {
			return err
		}
		if !p.IsAdmin {
			return apperr.Forbidden("administrator privileges required")
		}
		return c.Next()
	}
}

// CurrentPrincipal returns the caller stored by AuthMiddleware.
func CurrentPrincipal(c fiber.Ctx) (*Principal, error) {
	p, ok := c.Locals(principalKey).(*Principal)
	if !ok || p == nil {
		return nil, apperr.ErrUnauthorized
	}
	return p, nil
}
