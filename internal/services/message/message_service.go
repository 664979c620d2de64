package message

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

const maxContentLength = 5000

// MessageService serves direct messages between users.
type MessageService struct {
	repo       Repository
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
	timeout    time.Duration
}

// NewMessageService creates a MessageService.
func NewMessageService(repo Repository, jwtService *utils.JWTService, log *zap.SugaredLogger, timeout time.Duration) *MessageService {
	return &MessageService{repo: repo, jwtService: jwtService, log: log, timeout: timeout}
}

// GetMessages returns the caller's messages, optionally for one listing.
func (s *MessageService) GetMessages(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	listingID, err := utils.ParseOptionalUUID(c.Query("listingId"), "listingId")
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	messages, err := s.repo.ListForUser(ctx, p.UserID, listingID)
	if err != nil {
		return err
	}
	return c.JSON(messages)
}

// GetConversations returns every message of the caller. Clients group them by
// counterpart and listing.
func (s *MessageService) GetConversations(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	messages, err := s.repo.ListForUser(ctx, p.UserID, nil)
	if err != nil {
		return err
	}
	return c.JSON(messages)
}

// SendMessage stores a message from the caller.
func (s *MessageService) SendMessage(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var in struct {
		ReceiverID string `json:"receiverId"`
		ListingID  string `json:"listingId"`
		Content    string `json:"content"`
	}
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	v := apperr.Validation()
	content := strings.TrimSpace(in.Content)
	switch {
	case content == "":
		v.Add("content", "is required")
	case utf8.RuneCountInString(content) > maxContentLength:
		v.Add("content", "must be at most 5000 characters")
	}
	switch in.ReceiverID {
	case "":
		v.Add("receiverId", "is required")
	case p.UserID:
		v.Add("receiverId", "cannot message yourself")
	}
	listingID, err := utils.ParseOptionalUUID(in.ListingID, "listingId")
	if err != nil {
		v.Add("listingId", "must be a valid id")
	}
	if err := v.Err(); err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	exists, err := s.repo.UserExists(ctx, in.ReceiverID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("receiver")
	}
	if listingID != nil {
		exists, err := s.repo.ListingExists(ctx, *listingID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("listing")
		}
	}

	m := &models.Message{
		SenderID:   p.UserID,
		ReceiverID: in.ReceiverID,
		ListingID:  listingID,
		Content:    content,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}
	s.log.Debugw("message sent", "message_id", m.ID, "from", m.SenderID, "to", m.ReceiverID)

	return c.Status(fiber.StatusCreated).JSON(m)
}

// MarkRead sets isRead. Only the receiver may do it.
func (s *MessageService) MarkRead(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamUUID(c, "id", "message")
	if err != nil {
		return err
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if m.ReceiverID != p.UserID {
		return apperr.Forbidden("only the receiver can mark a message as read")
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return err
	}
	m.IsRead = true
	return c.JSON(m)
}
