package listing

import (
	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
)

// SetupRoutes registers the listing endpoints. Reads are public.
func (s *ListingService) SetupRoutes(router fiber.Router) {
	auth := middleware.AuthMiddleware(s.jwtService)

	api := router.Group("/listings")

	api.Get("/", s.GetListings)
	api.Get("/:id", s.GetListing)

	// Fiber runs route middleware in order before the handler, which comes first.
	api.Post("/", s.CreateListing, auth)
	api.Put("/:id", s.UpdateListing, auth)
	api.Delete("/:id", s.DeleteListing, auth)
	api.Put("/:id/status", s.SetListingStatus, auth)
}
