package forum

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

const maxTitleLength = 200

type postInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Topic   *string `json:"topic"`
}

// ForumService serves community forum posts.
type ForumService struct {
	repo       Repository
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
	timeout    time.Duration
}

func NewForumService(repo Repository, jwtService *utils.JWTService, log *zap.SugaredLogger, timeout time.Duration) *ForumService {
	return &ForumService{repo: repo, jwtService: jwtService, log: log, timeout: timeout}
}

func (s *ForumService) GetPosts(c fiber.Ctx) error {
	limit, offset, err := utils.Pagination(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	posts, err := s.repo.List(ctx, c.Query("topic"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

func (s *ForumService) GetPost(c fiber.Ctx) error {
	id, err := utils.ParamUUID(c, "id", "post")
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (s *ForumService) CreatePost(c fiber.Ctx) error {
	pr, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	var in postInput
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	p := &models.ForumPost{UserID: pr.UserID}
	if err := in.apply(p); err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// UpdatePost edits a post. Author or admin only.
func (s *ForumService) UpdatePost(c fiber.Ctx) error {
	pr, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamUUID(c, "id", "post")
	if err != nil {
		return err
	}
	var in postInput
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !pr.CanModify(p.UserID) {
		return apperr.Forbidden("you can only edit your own posts")
	}
	if err := in.apply(p); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	return c.JSON(p)
}

// DeletePost removes a post. Author or admin only.
func (s *ForumService) DeletePost(c fiber.Ctx) error {
	pr, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamUUID(c, "id", "post")
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !pr.CanModify(p.UserID) {
		return apperr.Forbidden("you can only delete your own posts")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Infow("forum post deleted", "post_id", id, "by", pr.UserID)
	return c.JSON(fiber.Map{"success": true})
}

func (in postInput) apply(p *models.ForumPost) error {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		p.Content = strings.TrimSpace(*in.Content)
	}
	if in.Topic != nil {
		p.Topic = strings.TrimSpace(*in.Topic)
	}

	v := apperr.Validation()
	switch {
	case p.Title == "":
		v.Add("title", "is required")
	case utf8.RuneCountInString(p.Title) > maxTitleLength:
		v.Add("title", "must be at most 200 characters")
	}
	if p.Content == "" {
		v.Add("content", "is required")
	}
	return v.Err()
}
