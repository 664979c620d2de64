package report

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

// ReportService serves content reports and their moderation.
type ReportService struct {
	repo       Repository
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
	timeout    time.Duration
}

// NewReportService creates a ReportService.
func NewReportService(repo Repository, jwtService *utils.JWTService, log *zap.SugaredLogger, timeout time.Duration) *ReportService {
	return &ReportService{repo: repo, jwtService: jwtService, log: log, timeout: timeout}
}

// CreateReport files a report as the caller. Status always starts as pending,
// whatever the body says.
func (s *ReportService) CreateReport(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}

	var in struct {
		ListingID      string `json:"listingId"`
		ReportedUserID string `json:"reportedUserId"`
		Reason         string `json:"reason"`
		Description    string `json:"description"`
	}
	if err := c.Bind().Body(&in); err != nil {
		return apperr.Invalid("body", "malformed request body")
	}

	v := apperr.Validation()
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		v.Add("reason", "is required")
	}
	listingID, err := utils.ParseOptionalUUID(in.ListingID, "listingId")
	if err != nil {
		v.Add("listingId", "must be a valid id")
	}
	if in.ListingID == "" && in.ReportedUserID == "" {
		v.Add("listingId", "a listing or a user must be reported")
	}
	if err := v.Err(); err != nil {
		return err
	}

	rp := &models.Report{
		ReporterID:  p.UserID,
		ListingID:   listingID,
		Reason:      reason,
		Description: in.Description,
		Status:      models.ReportPending,
	}
	if in.ReportedUserID != "" {
		rp.ReportedUserID = &in.ReportedUserID
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	if err := s.repo.Create(ctx, rp); err != nil {
		return err
	}
	s.log.Infow("report filed", "report_id", rp.ID, "reporter_id", rp.ReporterID)
	return c.Status(fiber.StatusCreated).JSON(rp)
}

// GetReports lists reports, optionally of one status.
func (s *ReportService) GetReports(c fiber.Ctx) error {
	var status *string
	if raw := c.Query("status"); raw != "" {
		status = &raw
	}

	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	reports, err := s.repo.List(ctx, status)
	if err != nil {
		return err
	}
	return c.JSON(reports)
}

// UpdateReport overwrites the status. Any non-empty value is stored.
func (s *ReportService) UpdateReport(c fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := utils.ParamUUID(c, "id", "report")
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

	rp, err := s.repo.SetStatus(ctx, id, body.Status)
	if err != nil {
		return err
	}
	s.log.Infow("report status changed", "report_id", id, "status", body.Status, "by", p.UserID)
	return c.JSON(rp)
}
