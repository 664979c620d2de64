package message

import (
	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
)

// SetupRoutes registers the messaging endpoints. All of them need a session.
func (s *MessageService) SetupRoutes(router fiber.Router) {
	auth := middleware.AuthMiddleware(s.jwtService)

	router.Get("/messages", s.GetMessages, auth)
	router.Post("/messages", s.SendMessage, auth)
	router.Put("/messages/:id/read", s.MarkRead, auth)
	router.Get("/conversations", s.GetConversations, auth)
}
