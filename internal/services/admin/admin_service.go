package admin

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/middleware"
	"github.com/SitNav/Market-1.0-sub000/internal/models"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

// StatsSource computes the dashboard counters.
type StatsSource interface {
	Stats(ctx context.Context) (models.AdminStats, error)
}

// PgStats implements StatsSource on Postgres.
type PgStats struct {
	db db.DBTX
}

func NewPgStats(pool db.DBTX) *PgStats {
	return &PgStats{db: pool}
}

// Stats reads the four counters in one round trip. They are independent
// snapshots, not a consistent view across tables.
func (s *PgStats) Stats(ctx context.Context) (models.AdminStats, error) {
	var st models.AdminStats
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM listings),
			(SELECT COUNT(*) FROM reports),
			(SELECT COUNT(*) FROM reports WHERE status = 'pending')
	`).Scan(&st.UsersCount, &st.ListingsCount, &st.ReportsCount, &st.PendingReportsCount)
	return st, err
}

// AdminService serves the moderation dashboard.
type AdminService struct {
	stats      StatsSource
	jwtService *utils.JWTService
	log        *zap.SugaredLogger
	timeout    time.Duration
}

func NewAdminService(stats StatsSource, jwtService *utils.JWTService, log *zap.SugaredLogger, timeout time.Duration) *AdminService {
	return &AdminService{stats: stats, jwtService: jwtService, log: log, timeout: timeout}
}

func (s *AdminService) GetStats(c fiber.Ctx) error {
	ctx, cancel := db.QueryContext(s.timeout)
	defer cancel()

	st, err := s.stats.Stats(ctx)
	if err != nil {
		return err
	}
	return c.JSON(st)
}

// SetupRoutes registers the admin endpoints.
func (s *AdminService) SetupRoutes(router fiber.Router) {
	api := router.Group("/admin", middleware.AuthMiddleware(s.jwtService), middleware.RequireAdmin())
	api.Get("/stats", s.GetStats)
}
