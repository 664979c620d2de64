package listing

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
	"github.com/SitNav/Market-1.0-sub000/internal/storage"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

const maxTitleLength = 200

// listingInput is the create body, sent as JSON or as multipart form fields.
type listingInput struct {
	CategoryID  string   `json:"categoryId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	PriceType   string   `json:"priceType"`
	Location    string   `json:"location"`
	Images      []string `json:"images"`
}

// listingPatch is the update body. Absent fields keep their value.
type listingPatch struct {
	CategoryID  *string   `json:"categoryId"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	PriceType   *string   `json:"priceType"`
	Location    *string   `json:"location"`
	Images      *[]string `json:"images"`
	IsPromoted  *bool     `json:"isPromoted"`
}

// ListingService serves the listing endpoints.
type ListingService struct {
	repo       Repository
	images     storage.ImageStore
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
	timeout    time.Duration
}

// NewListingService creates a ListingService.
func NewListingService(repo Repository, images storage.ImageStore, jwtService *utils.JWTService, log *zap.SugaredLogger, timeout time.Duration) *ListingService {
	return &ListingService{
		repo:       repo,
		images:     images,
		jwtService: jwtService,
		log:        log,
		timeout:    timeout,
	}
}

// GetListings returns a filtered page of listings.
func (s *ListingService) GetListings(c fiber.Ctx) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	listings, err := s.repo.List(ctx, f)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"listings": models.Views(listings),
		"limit":    f.Limit,
		"offset":   f.Offset,
	})
}

// filterFromQuery reads the listing filter. status defaults to "active" when
// the parameter is absent; an empty status=... turns the filter off.
func filterFromQuery(c fiber.Ctx) (Filter, error) {
	var f Filter
	var err error

	f.Limit, f.Offset, err = utils.Pagination(c)
	if err != nil {
		return f, err
	}
	if f.CategoryID, err = utils.ParseOptionalUUID(c.Query("categoryId"), "categoryId"); err != nil {
		return f, err
	}
	if userID := c.Query("userId"); userID != "" {
		f.UserID = &userID
	}
	f.Search = c.Query("search")

	status, present := c.Queries()["status"]
	switch {
	case !present:
		active := models.StatusActive
		f.Status = &active
	case status != "":
		f.Status = &status
	}
	return f, nil
}

// GetListing returns one listing. Every call counts as a view.
func (s *ListingService) GetListing(c fiber.Ctx) error {
	id, err := utils.ParamUUID(c, "id", "listing")
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	l, err := s.repo.GetAndCountView(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(l.View())
}

// CreateListing creates a listing owned by the caller.
func (s *ListingService) CreateListing(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var (
		in      listingInput
		uploads []storage.Image
	)
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		in, uploads, err = readMultipart(c)
		if err != nil {
			return err
		}
	} else if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	l, err := in.toListing(len(uploads))
	if err != nil {
		return err
	}
	l.UserID = p.UserID
	l.Status = models.StatusActive

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	if len(uploads) > 0 {
		urls, err := storage.SaveAll(ctx, s.images, uploads)
		if err != nil {
			return err
		}
		l.Images = append(l.Images, urls...)
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return err
	}
	s.log.Infow("listing created", "listing_id", l.ID, "user_id", l.UserID, "images", len(l.Images))

	created, err := s.repo.Get(ctx, l.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created.View())
}

func readMultipart(c fiber.Ctx) (listingInput, []storage.Image, error) {
	var in listingInput
	form, err := c.MultipartForm()
	if err != nil {
		return in, nil, apperr.Invalid("body", "malformed multipart form")
	}

	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	in.CategoryID = value("categoryId")
	in.Title = value("title")
	in.Description = value("description")
	in.PriceType = value("priceType")
	in.Location = value("location")
	if raw := value("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, nil, apperr.Invalid("price", "must be a number")
		}
		in.Price = &price
	}

	images, err := storage.ReadImages(form.File["images"])
	if err != nil {
		return in, nil, err
	}
	return in, images, nil
}

// toListing validates the input. uploads is the number of files that will be
// appended to the URL list.
func (in listingInput) toListing(uploads int) (*models.Listing, error) {
	v := apperr.Validation()

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		v.Add("title", "is required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		v.Add("title", "must be at most 200 characters")
	}

	categoryID, err := uuid.Parse(in.CategoryID)
	if err != nil {
		v.Add("categoryId", "must be a valid id")
	}

	priceType := in.PriceType
	if priceType == "" {
		priceType = models.PriceFixed
	}
	if !models.ValidPriceType(priceType) {
		v.Add("priceType", "must be one of fixed, free, negotiable")
	}
	if in.Price != nil && *in.Price < 0 {
		v.Add("price", "must not be negative")
	}
	if len(in.Images)+uploads > storage.MaxImages {
		v.Add("images", "at most 5 images are allowed")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	l := &models.Listing{
		CategoryID:  categoryID,
		Title:       title,
		Description: in.Description,
		Price:       in.Price,
		PriceType:   priceType,
		Location:    in.Location,
		Images:      append([]string{}, in.Images...),
	}
	// The price of a free listing is never shown, so it is not stored either.
	if l.PriceType == models.PriceFree {
		l.Price = nil
	}
	return l, nil
}

// UpdateListing edits a listing. Owner or admin only; promotion is admin only.
func (s *ListingService) UpdateListing(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamUUID(c, "id", "listing")
	if err != nil {
		return err
	}

	var patch listingPatch
	if err := c.Bind().Body(&patch); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanModify(l.UserID) {
		return apperr.Forbidden("you can only edit your own listings")
	}
	if patch.IsPromoted != nil && !p.IsAdmin {
		return apperr.Forbidden("only administrators can promote listings")
	}

	if err := patch.apply(l); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, l); err != nil {
		return err
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(updated.View())
}

func (patch listingPatch) apply(l *models.Listing) error {
	in := listingInput{
		CategoryID:  l.CategoryID.String(),
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		PriceType:   l.PriceType,
		Location:    l.Location,
		Images:      l.Images,
	}
	if patch.CategoryID != nil {
		in.CategoryID = *patch.CategoryID
	}
	if patch.Title != nil {
		in.Title = *patch.Title
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.Price != nil {
		in.Price = patch.Price
	}
	if patch.PriceType != nil {
		in.PriceType = *patch.PriceType
	}
	if patch.Location != nil {
		in.Location = *patch.Location
	}
	if patch.Images != nil {
		in.Images = *patch.Images
	}

	next, err := in.toListing(0)
	if err != nil {
		return err
	}
	next.ID = l.ID
	next.UserID = l.UserID
	next.Status = l.Status
	next.IsPromoted = l.IsPromoted
	if patch.IsPromoted != nil {
		next.IsPromoted = *patch.IsPromoted
	}
	*l = *next
	return nil
}

// DeleteListing removes a listing. Owner or admin only.
func (s *ListingService) DeleteListing(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamUUID(c, "id", "listing")
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanModify(l.UserID) {
		return apperr.Forbidden("you can only delete your own listings")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("listing deleted", "listing_id", id, "by", p.UserID)

	return c.JSON(fiber.Map{"success": true})
}

// SetListingStatus overwrites the status. Owner or admin only; the value is
// stored as sent.
func (s *ListingService) SetListingStatus(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamUUID(c, "id", "listing")
	if err != nil {
		return err
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind().Body(&body); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}
	if body.Status == "" {
		return apperr.Invalid("status", "is required")
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanModify(l.UserID) {
		return apperr.Forbidden("you can only change the status of your own listings")
	}
	if err := s.repo.SetStatus(ctx, id, body.Status); err != nil {
		return err
	}
	s.log.Infow("listing status changed", "listing_id", id, "from", l.Status, "to", body.Status, "by", p.UserID)

	return c.JSON(fiber.Map{"success": true, "id": id, "status": body.Status})
}
