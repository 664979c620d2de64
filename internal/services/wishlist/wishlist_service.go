package wishlist

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

// WishlistService serves the caller's saved listings.
type WishlistService struct {
	repo       Repository
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
	timeout    time.Duration
}

func NewWishlistService(repo Repository, jwtService *utils.JWTService, log *zap.SugaredLogger, timeout time.Duration) *WishlistService {
	return &WishlistService{repo: repo, jwtService: jwtService, log: log, timeout: timeout}
}

func (s *WishlistService) GetWishlist(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	items, err := s.repo.List(ctx, p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

// AddToWishlist saves a listing for the caller.
func (s *WishlistService) AddToWishlist(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var in struct {
		ListingID string `json:"listingId"`
	}
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}
	listingID, err := uuid.Parse(in.ListingID)
	if err != nil {
		return apperr.Invalid("listingId", "must be a valid id")
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	item := &models.WishlistItem{UserID: p.UserID, ListingID: listingID}
	if err := s.repo.Add(ctx, item); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (s *WishlistService) RemoveFromWishlist(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	listingID, err := utils.ParamUUID(c, "listingId", "wishlist item")
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	if err := s.repo.Remove(ctx, p.UserID, listingID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
