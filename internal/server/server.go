// Package server assembles the HTTP application from its services.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"
	"go.uber.org/zap"

	"github.com/SitNav/Market-1.0-sub000/internal/apperr"
	"github.com/SitNav/Market-1.0-sub000/internal/config"
	"github.com/SitNav/Market-1.0-sub000/internal/db"
	"github.com/SitNav/Market-1.0-sub000/internal/services/admin"
	"github.com/SitNav/Market-1.0-sub000/internal/services/auth"
	"github.com/SitNav/Market-1.0-sub000/internal/services/cart"
	"github.com/SitNav/Market-1.0-sub000/internal/services/category"
	"github.com/SitNav/Market-1.0-sub000/internal/services/comment"
	"github.com/SitNav/Market-1.0-sub000/internal/services/forum"
	"github.com/SitNav/Market-1.0-sub000/internal/services/listing"
	"github.com/SitNav/Market-1.0-sub000/internal/services/message"
	"github.com/SitNav/Market-1.0-sub000/internal/services/report"
	"github.com/SitNav/Market-1.0-sub000/internal/services/review"
	"github.com/SitNav/Market-1.0-sub000/internal/services/upload"
	"github.com/SitNav/Market-1.0-sub000/internal/services/user"
	"github.com/SitNav/Market-1.0-sub000/internal/services/wishlist"
	"github.com/SitNav/Market-1.0-sub000/internal/storage"
	"github.com/SitNav/Market-1.0-sub000/internal/utils"
)

// BodyLimit fits a listing with the maximum number of full-size images.
const BodyLimit = 30 << 20

// Pinger reports database health. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators New wires into the services.
type Deps struct {
	DB       db.DBTX
	Pinger   Pinger
	Images   storage.ImageStore
	Identity auth.IdentityProvider
	Log      *zap.SugaredLogger
}

// New builds the Fiber app with every route under /api.
func New(cfg *config.Config, deps Deps) *fiber.App {
	log := deps.Log
	timeout := cfg.DatabaseConfig.QueryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	jwtService := utils.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)

	app := fiber.New(fiber.Config{
		AppName:      "TerraNav API",
		ErrorHandler: apperr.ErrorHandler(log),
		BodyLimit:    BodyLimit,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.AppEnv == "development"}))
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	if local, ok := deps.Images.(*storage.LocalStore); ok {
		app.Get(cfg.StorageConfig.URLPrefix+"*", static.New(local.Dir()))
	}

	api := app.Group("/api")
	api.Get("/health", healthHandler(deps.Pinger))

	var signer upload.Signer
	if s, ok := deps.Images.(upload.Signer); ok {
		signer = s
	}

	users := user.NewPgRepository(deps.DB)

	auth.NewAuthService(deps.Identity, users, jwtService, cfg.IsAdminID, log, timeout).SetupRoutes(api)
	user.NewUserService(users, jwtService, log, timeout).SetupRoutes(api)
	category.NewCategoryService(category.NewPgRepository(deps.DB), jwtService, log, timeout).SetupRoutes(api)
	listing.NewListingService(listing.NewPgRepository(deps.DB), deps.Images, jwtService, log, timeout).SetupRoutes(api)
	message.NewMessageService(message.NewPgRepository(deps.DB), jwtService, log, timeout).SetupRoutes(api)
	report.NewReportService(report.NewPgRepository(deps.DB), jwtService, log, timeout).SetupRoutes(api)
	admin.NewAdminService(admin.NewPgStats(deps.DB), jwtService, log, timeout).SetupRoutes(api)
	comment.NewCommentService(comment.NewPgRepository(deps.DB), jwtService, log, timeout).SetupRoutes(api)
	review.NewReviewService(review.NewPgRepository(deps.DB), jwtService, log, timeout).SetupRoutes(api)
	forum.NewForumService(forum.NewPgRepository(deps.DB), jwtService, log, timeout).SetupRoutes(api)
	wishlist.NewWishlistService(wishlist.NewPgRepository(deps.DB), jwtService, log, timeout).SetupRoutes(api)
	cart.NewCartService(cart.NewPgRepository(deps.DB), jwtService, log, timeout).SetupRoutes(api)
	upload.NewUploadService(signer, jwtService, log).SetupRoutes(api)

	return app
}

func healthHandler(pinger Pinger) fiber.Handler {
	return func(c fiber.Ctx) error {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
