package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
	"github.com/SitNav/Market-1.0-sub000/internal/services/user"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

// AuthService exchanges third-party credentials for session tokens.
type AuthService struct {
	provider   IdentityProvider
	users      user.Repository
	jwtService *utils.JWTService
	isAdminID  func(string) bool
	log        *zap.SugaredLogger
	timeout    time.Duration
}

// NewAuthService creates an AuthService. isAdminID marks ids promoted to
// admin on login; nil promotes nobody.
func NewAuthService(provider IdentityProvider, users user.Repository, jwtService *utils.JWTService,
	isAdminID func(string) bool, log *zap.SugaredLogger, timeout time.Duration) *AuthService {
	if isAdminID == nil {
		isAdminID = func(string) bool { return false }
	}
	return &AuthService{
		provider:   provider,
		users:      users,
		jwtService: jwtService,
		isAdminID:  isAdminID,
		log:        log,
		timeout:    timeout,
	}
}

// TelegramAuthHandler verifies initData, upserts the user and returns a token.
func (s *AuthService) TelegramAuthHandler(c fiber.Ctx) error {
	var payload struct {
		InitData string `json:"initData"`
	}
	if err := c.Bind().Body(&payload); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}
	if strings.TrimSpace(payload.InitData) == "" {
		return apperr.Invalid("initData", "is required")
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	identity, err := s.provider.Verify(ctx, payload.InitData)
	if err != nil {
		s.log.Warnw("identity verification failed", "err", err)
		return err
	}

	u := &models.User{
		ID:         identity.ID,
		Email:      identity.Email,
		FirstName:  identity.FirstName,
		LastName:   identity.LastName,
		IsVerified: true,
		IsAdmin:    s.isAdminID(identity.ID),
	}
	if identity.PhotoURL != "" {
		u.ProfileImageURL = &identity.PhotoURL
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		return err
	}

	token, err := s.jwtService.GenerateToken(u.ID, u.IsAdmin)
	if err != nil {
		return err
	}
	s.log.Infow("user signed in", "user_id", u.ID, "is_admin", u.IsAdmin)

	return c.JSON(fiber.Map{
		"token": token,
		"user":  u,
	})
}

// Me returns the caller's own profile, contact details included.
func (s *AuthService) Me(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	u, err := s.users.Get(ctx, p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(u)
}
