package user

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

const maxNameLength = 100

// UserService serves public profiles and profile editing.
type UserService struct {
	repo       Repository
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
	timeout    time.Duration
}

func NewUserService(repo Repository, jwtService *utils.JWTService, log *zap.SugaredLogger, timeout time.Duration) *UserService {
	return &UserService{repo: repo, jwtService: jwtService, log: log, timeout: timeout}
}

// GetUser returns a public profile. Contact details are left out.
func (s *UserService) GetUser(c fiber.Ctx) error {
	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	u, err := s.repo.Get(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	u.Email = ""
	u.Phone = nil
	return c.JSON(u)
}

// UpdateMe edits the caller's own profile.
func (s *UserService) UpdateMe(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var in struct {
		FirstName       *string `json:"firstName"`
		LastName        *string `json:"lastName"`
		Phone           *string `json:"phone"`
		ProfileImageURL *string `json:"profileImageUrl"`
	}
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	u, err := s.repo.Get(ctx, p.UserID)
	if err != nil {
		return err
	}

	v := apperr.Validation()
	if in.FirstName != nil {
		u.FirstName = strings.TrimSpace(*in.FirstName)
		if u.FirstName == "" || utf8.RuneCountInString(u.FirstName) > maxNameLength {
			v.Add("firstName", "must be between 1 and 100 characters")
		}
	}
	if in.LastName != nil {
		u.LastName = strings.TrimSpace(*in.LastName)
		if utf8.RuneCountInString(u.LastName) > maxNameLength {
			v.Add("lastName", "must be at most 100 characters")
		}
	}
	if in.Phone != nil {
		u.Phone = nullable(*in.Phone)
	}
	if in.ProfileImageURL != nil {
		u.ProfileImageURL = nullable(*in.ProfileImageURL)
	}
	if err := v.Err(); err != nil {
		return err
	}

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return err
	}
	return c.JSON(u)
}

// GetRating returns the seller's aggregated review score.
func (s *UserService) GetRating(c fiber.Ctx) error {
	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	rating, err := s.repo.Rating(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(rating)
}

func nullable(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

