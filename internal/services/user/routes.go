package user

import (
	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
)

// SetupRoutes registers the user endpoints.
func (s *UserService) SetupRoutes(router fiber.Router) {
	api := router.Group("/users")

	api.Put("/me", s.UpdateMe, middleware.AuthMiddleware(s.jwtService))
	api.Get("/:id", s.GetUser)
	api.Get("/:id/rating", s.GetRating)
}
