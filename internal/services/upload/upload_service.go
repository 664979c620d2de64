package upload

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

// Signer signs direct-to-storage uploads. storage.CloudinaryStore implements it.
type Signer interface {
	UploadParams(listingID string) (map[string]string, error)
}

// UploadService hands out signed upload parameters so clients can upload
// listing images without going through the API.
type UploadService struct {
	signer     Signer
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
}

// NewUploadService creates an UploadService. A nil signer means direct
// uploads are not available with the configured storage.
func NewUploadService(signer Signer, jwtService *utils.JWTService, log *zap.SugaredLogger) *UploadService {
	return &UploadService{signer: signer, jwtService: jwtService, log: log}
}

// GenerateUploadParams returns signed parameters for ?listingId, or for a
// fresh id the client can create the listing with.
func (s *UploadService) GenerateUploadParams(c fiber.Ctx) error {
	if s.signer == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "direct uploads are not available, send images with the listing")
	}

	listingID := c.Query("listingId")
	if listingID == "" {
		listingID = uuid.NewString()
	} else if _, err := uuid.Parse(listingID); err != nil {
		return apperr.Invalid("listingId", "must be a valid id")
	}

	params, err := s.signer.UploadParams(listingID)
	if err != nil {
		return err
	}
	return c.JSON(params)
}

func (s *UploadService) SetupRoutes(router fiber.Router) {
	router.Get("/upload/params", s.GenerateUploadParams, middleware.AuthMiddleware(s.jwtService))
}
