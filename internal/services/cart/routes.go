package cart

import (
	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
)

// SetupRoutes registers the cart endpoints. Every route acts on the caller's own cart.
func (s *CartService) SetupRoutes(router fiber.Router) {
	api := router.Group("/cart", middleware.AuthMiddleware(s.jwtService))

	api.Get("/", s.GetCart)
	api.Post("/", s.AddToCart)
	api.Put("/:listingId", s.UpdateCartItem)
	api.Delete("/:listingId", s.RemoveFromCart)
}
