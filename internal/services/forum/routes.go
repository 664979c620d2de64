package forum

import (
	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
)

func (s *ForumService) SetupRoutes(router fiber.Router) {
	auth := middleware.AuthMiddleware(s.jwtService)

	api := router.Group("/forum/posts")

	api.Get("/", s.GetPosts)
	api.Get("/:id", s.GetPost)
	api.Post("/", s.CreatePost, auth)
	api.Put("/:id", s.UpdatePost, auth)
	api.Delete("/:id", s.DeletePost, auth)
}
