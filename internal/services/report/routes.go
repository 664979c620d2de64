package report

import (
	"github.com/gofiber/fiber/v3"

	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
)

// SetupRoutes registers the report endpoints. Anyone signed in can report;
// reading and resolving is admin only.
func (s *ReportService) SetupRoutes(router fiber.Router) {
	auth := middleware.AuthMiddleware(s.jwtService)
	admin := middleware.RequireAdmin()

	api := router.Group("/reports")

	api.Post("/", s.CreateReport, auth)
	api.Get("/", s.GetReports, auth, admin)
	api.Put("/:id", s.UpdateReport, auth, admin)
}
