package comment

import (
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
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

const maxContentLength = 2000

// CommentService serves comments on listings.
type CommentService struct {
	repo       Repository
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
	timeout    time.Duration
}

func NewCommentService(repo Repository, jwtService *utils.JWTService, log *zap.SugaredLogger, timeout time.Duration) *CommentService {
	return &CommentService{repo: repo, jwtService: jwtService, log: log, timeout: timeout}
}

// GetComments lists the comments of ?listingId.
func (s *CommentService) GetComments(c fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Query("listingId"))
	if err != nil {
		return apperr.Invalid("listingId", "is required")
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	comments, err := s.repo.ListByListing(ctx, listingID)
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

func (s *CommentService) CreateComment(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var in struct {
		ListingID string `json:"listingId"`
		Content   string `json:"content"`
	}
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	v := apperr.Validation()
	listingID, err := uuid.Parse(in.ListingID)
	if err != nil {
		v.Add("listingId", "must be a valid id")
	}
	content, msg := cleanContent(in.Content)
	if msg != "" {
		v.Add("content", msg)
	}
	if err := v.Err(); err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	cm := &models.Comment{ListingID: listingID, UserID: p.UserID, Content: content}
	if err := s.repo.Create(ctx, cm); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(cm)
}

// UpdateComment edits the content. Author or admin only.
func (s *CommentService) UpdateComment(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamUUID(c, "id", "comment")
	if err != nil {
		return err
	}

	var in struct {
		Content string `json:"content"`
	}
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}
	content, msg := cleanContent(in.Content)
	if msg != "" {
		return apperr.Invalid("content", msg)
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	cm, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanModify(cm.UserID) {
		return apperr.Forbidden("you can only edit your own comments")
	}
	cm.Content = content
	if err := s.repo.Update(ctx, cm); err != nil {
		return err
	}
	return c.JSON(cm)
}

// DeleteComment removes a comment. Author or admin only.
func (s *CommentService) DeleteComment(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamUUID(c, "id", "comment")
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	cm, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanModify(cm.UserID) {
		return apperr.Forbidden("you can only delete your own comments")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func cleanContent(raw string) (string, string) {
	content := strings.TrimSpace(raw)
	switch {
	case content == "":
		return "", "is required"
	case utf8.RuneCountInString(content) > maxContentLength:
		return "", "must be at most 2000 characters"
	}
	return content, ""
}
