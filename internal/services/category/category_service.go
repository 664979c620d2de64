package category

import (
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlug     = regexp.MustCompile(`[^a-z0-9]+`)
)

type categoryInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

// CategoryService serves the category endpoints.
type CategoryService struct {
	repo       Repository
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
	timeout    time.Duration
}

func NewCategoryService(repo Repository, jwtService *utils.JWTService, log *zap.SugaredLogger, timeout time.Duration) *CategoryService {
	return &CategoryService{repo: repo, jwtService: jwtService, log: log, timeout: timeout}
}

// GetCategories lists active categories, or all of them with ?all=true.
func (s *CategoryService) GetCategories(c fiber.Ctx) error {
	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	categories, err := s.repo.List(ctx, c.Query("all") == "true")
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

func (s *CategoryService) CreateCategory(c fiber.Ctx) error {
	var in categoryInput
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	cat := &models.Category{IsActive: true}
	if err := in.apply(cat); err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	if err := s.repo.Create(ctx, cat); err != nil {
		return err
	}
	s.log.Infow("category created", "category_id", cat.ID, "slug", cat.Slug)
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (s *CategoryService) UpdateCategory(c fiber.Ctx) error {
	id, err := utils.ParamUUID(c, "id", "category")
	if err != nil {
		return err
	}
	var in categoryInput
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	cat, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := in.apply(cat); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, cat); err != nil {
		return err
	}
	return c.JSON(cat)
}

func (s *CategoryService) DeleteCategory(c fiber.Ctx) error {
	id, err := utils.ParamUUID(c, "id", "category")
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("category deleted", "category_id", id)
	return c.JSON(fiber.Map{"success": true})
}

// apply merges the input into cat and validates the result. A missing slug is
// derived from the name.
func (in categoryInput) apply(cat *models.Category) error {
	if in.Name != nil {
		cat.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		cat.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Description != nil {
		cat.Description = *in.Description
	}
	if in.Icon != nil {
		cat.Icon = *in.Icon
	}
	if in.Color != nil {
		cat.Color = *in.Color
	}
	if in.IsActive != nil {
		cat.IsActive = *in.IsActive
	}
	if cat.Slug == "" {
		cat.Slug = Slugify(cat.Name)
	}

	v := apperr.Validation()
	if cat.Name == "" {
		v.Add("name", "is required")
	}
	if !slugPattern.MatchString(cat.Slug) {
		v.Add("slug", "must contain lowercase letters, digits and single dashes")
	}
	return v.Err()
}

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
