package category

import (
	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
)

// SetupRoutes registers the category endpoints. Writes are admin only.
func (s *CategoryService) SetupRoutes(router fiber.Router) {
	auth := middleware.AuthMiddleware(s.jwtService)
	admin := middleware.RequireAdmin()

	api := router.Group("/categories")

	api.Get("/", s.GetCategories)
	api.Post("/", s.CreateCategory, auth, admin)
	api.Put("/:id", s.UpdateCategory, auth, admin)
	api.Delete("/:id", s.DeleteCategory, auth, admin)
}
