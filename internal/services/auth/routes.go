package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
)

// SetupRoutes registers the sign-in endpoints.
func (s *AuthService) SetupRoutes(router fiber.Router) {
	api := router.Group("/auth")

	api.Post("/telegram", s.TelegramAuthHandler)
	api.Get("/me", s.Me, middleware.AuthMiddleware(s.jwtService))
}
