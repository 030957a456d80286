package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/civicpulse/backend/internal/config"
	"github.com/civicpulse/backend/internal/handlers"
	"github.com/civicpulse/backend/internal/middleware"
	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/realtime"
)

// Handlers groups every HTTP handler mounted by Setup.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Health        *handlers.HealthHandler
	Reports       *handlers.ReportHandler
	Comments      *handlers.CommentHandler
	Notifications *handlers.NotificationHandler
	Directory     *handlers.DirectoryHandler
	Workflow      *handlers.WorkflowHandler
	Admin         *handlers.AdminHandler
	Realtime      *realtime.Handler
}

func Setup(app *fiber.App, cfg *config.Config, h Handlers) {
	// Realtime socket authenticates from ?token= and sits outside the rate limiter.
	app.Get("/ws", h.Realtime.Upgrade, h.Realtime.Serve())

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)

	// Auth-specific rate limit: 10 req/min per IP (stricter)
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", middleware.JWTProtected(cfg), h.Auth.Logout)

	jwt := middleware.JWTProtected(cfg)

	// Any authenticated caller
	api.Get("/categories", jwt, h.Directory.Categories)
	api.Post("/reports", jwt, middleware.RoleRequired(models.RoleTypeCitizen), h.Reports.Create)
	api.Get("/reports", jwt, h.Reports.ListPublic)
	api.Get("/reports/mine", jwt, h.Reports.ListMine)
	api.Get("/reports/:id", jwt, h.Reports.Get)
	api.Get("/reports/:id/comments", jwt, h.Comments.List)
	api.Post("/reports/:id/comments", jwt, h.Comments.Create)
	api.Get("/notifications", jwt, h.Notifications.List)
	api.Patch("/notifications/:id/read", jwt, h.Notifications.MarkRead)

	// Public relations
	pr := api.Group("/pub_relations", jwt, middleware.RoleRequired(models.RoleTypePubRelations))
	pr.Get("/reports", h.Reports.Queue)
	pr.Patch("/reports/:reportId", h.Reports.Review)

	// Staff directory
	staff := middleware.RoleRequired(models.RoleTypePubRelations, models.RoleTypeTechOfficer, models.RoleTypeAdmin)
	api.Get("/operators", jwt, staff, h.Directory.Operators)
	api.Get("/categories/:id/operators", jwt, staff, h.Directory.OperatorsForCategory)
	api.Get("/external_maintainers", jwt, staff, h.Directory.ExternalMaintainers)

	// Technical officers
	tech := api.Group("/tech", jwt, middleware.RoleRequired(models.RoleTypeTechOfficer))
	tech.Get("/reports", h.Workflow.ListAssigned)
	tech.Patch("/reports/:id/status", h.Workflow.UpdateStatus)
	tech.Patch("/reports/:id/external_maintainer", h.Workflow.AssignExternalMaintainer)

	// External maintainers
	external := api.Group("/external", jwt, middleware.RoleRequired(models.RoleTypeExternalMaintainer))
	external.Get("/reports", h.Workflow.ListForMaintainer)
	external.Patch("/reports/:id/status", h.Workflow.UpdateStatus)

	// Administration
	admin := api.Group("/admin", jwt, middleware.RoleRequired(models.RoleTypeAdmin))
	admin.Post("/users", h.Admin.CreateUser)
	admin.Get("/roles", h.Admin.ListRoles)
}
