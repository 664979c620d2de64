package cart

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

const maxQuantity = 99

// CartService serves the caller's shopping cart. No checkout happens here.
type CartService struct {
	repo       Repository
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
	timeout    time.Duration
}

func NewCartService(repo Repository, jwtService *utils.JWTService, log *zap.SugaredLogger, timeout time.Duration) *CartService {
	return &CartService{repo: repo, jwtService: jwtService, log: log, timeout: timeout}
}

func (s *CartService) GetCart(c fiber.Ctx) error {
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

// AddToCart adds quantity (default 1) of a listing.
func (s *CartService) AddToCart(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var in struct {
		ListingID string `json:"listingId"`
		Quantity  *int   `json:"quantity"`
	}
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	v := apperr.Validation()
	listingID, err := uuid.Parse(in.ListingID)
	if err != nil {
		v.Add("listingId", "must be a valid id")
	}
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	checkQuantity(v, quantity)
	if err := v.Err(); err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	item := &models.CartItem{UserID: p.UserID, ListingID: listingID, Quantity: quantity}
	if err := s.repo.Add(ctx, item); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateCartItem sets the quantity of a listing already in the cart.
func (s *CartService) UpdateCartItem(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	listingID, err := utils.ParamUUID(c, "listingId", "cart item")
	if err != nil {
		return err
	}

	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}
	if err := checkQuantity(apperr.Validation(), in.Quantity).Err(); err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	item, err := s.repo.SetQuantity(ctx, p.UserID, listingID, in.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (s *CartService) RemoveFromCart(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	listingID, err := utils.ParamUUID(c, "listingId", "cart item")
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

func checkQuantity(v *apperr.ValidationError, quantity int) *apperr.ValidationError {
	if quantity < 1 || quantity > maxQuantity {
		v.Add("quantity", "must be between 1 and 99")
	}
	return v
}
