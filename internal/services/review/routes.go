package review

import (
	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
)

func (s *ReviewService) SetupRoutes(router fiber.Router) {
	auth := middleware.AuthMiddleware(s.jwtService)

	api := router.Group("/reviews")

	api.Get("/", s.GetReviews)
	api.Post("/", s.CreateReview, auth)
	api.Put("/:id", s.UpdateReview, auth)
	api.Delete("/:id", s.DeleteReview, auth)
}
