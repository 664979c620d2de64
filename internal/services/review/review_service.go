package review

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// ReviewService serves seller reviews.
type ReviewService struct {
	repo       Repository
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
	timeout    time.Duration
}

func NewReviewService(repo Repository, jwtService *utils.JWTService, log *zap.SugaredLogger, timeout time.Duration) *ReviewService {
	return &ReviewService{repo: repo, jwtService: jwtService, log: log, timeout: timeout}
}

// GetReviews lists the reviews of ?sellerId.
func (s *ReviewService) GetReviews(c fiber.Ctx) error {
	sellerID := c.Query("sellerId")
	if sellerID == "" {
		return apperr.Invalid("sellerId", "is required")
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	reviews, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return err
	}
	return c.JSON(reviews)
}

// CreateReview rates a seller as the caller. Sellers cannot rate themselves.
func (s *ReviewService) CreateReview(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var in struct {
		SellerID  string `json:"sellerId"`
		ListingID string `json:"listingId"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	v := apperr.Validation()
	switch in.SellerID {
	case "":
		v.Add("sellerId", "is required")
	case p.UserID:
		v.Add("sellerId", "you cannot review yourself")
	}
	checkRating(v, in.Rating)
	listingID, err := utils.ParseOptionalUUID(in.ListingID, "listingId")
	if err != nil {
		v.Add("listingId", "must be a valid id")
	}
	if err := v.Err(); err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	rv := &models.Review{
		ReviewerID: p.UserID,
		SellerID:   in.SellerID,
		ListingID:  listingID,
		Rating:     in.Rating,
		Comment:    in.Comment,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return err
	}
	s.log.Infow("review created", "review_id", rv.ID, "seller_id", rv.SellerID, "rating", rv.Rating)
	return c.Status(fiber.StatusCreated).JSON(rv)
}

// UpdateReview changes rating and comment. Reviewer or admin only.
func (s *ReviewService) UpdateReview(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamUUID(c, "id", "review")
	if err != nil {
		return err
	}

	var in struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	rv, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanModify(rv.ReviewerID) {
		return apperr.Forbidden("you can only edit your own reviews")
	}
	if in.Rating != nil {
		v := apperr.Validation()
		if err := checkRating(v, *in.Rating).Err(); err != nil {
			return err
		}
		rv.Rating = *in.Rating
	}
	if in.Comment != nil {
		rv.Comment = *in.Comment
	}
	if err := s.repo.Update(ctx, rv); err != nil {
		return err
	}
	return c.JSON(rv)
}

// DeleteReview removes a review. Reviewer or admin only.
func (s *ReviewService) DeleteReview(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamUUID(c, "id", "review")
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	rv, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanModify(rv.ReviewerID) {
		return apperr.Forbidden("you can only delete your own reviews")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func checkRating(v *apperr.ValidationError, rating int) *apperr.ValidationError {
	if rating < MinRating || rating > MaxRating {
		v.Add("rating", "must be between 1 and 5")
	}
	return v
}
