package wishlist

import (
	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
)

// SetupRoutes registers the wishlist endpoints. Every route acts on the caller's own list.
func (s *WishlistService) SetupRoutes(router fiber.Router) {
	api := router.Group("/wishlist", middleware.AuthMiddleware(s.jwtService))

	api.Get("/", s.GetWishlist)
	api.Post("/", s.AddToWishlist)
	api.Delete("/:listingId", s.RemoveFromWishlist)
}
