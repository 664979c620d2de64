package comment

import (
	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
)

func (s *CommentService) SetupRoutes(router fiber.Router) {
	auth := middleware.AuthMiddleware(s.jwtService)

	api := router.Group("/comments")

	api.Get("/", s.GetComments)
	api.Post("/", s.CreateComment, auth)
	api.Put("/:id", s.UpdateComment, auth)
	api.Delete("/:id", s.DeleteComment, auth)
}
