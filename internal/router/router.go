package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/clinic-admin-api/internal/config"
	"github.com/noah-isme/clinic-admin-api/internal/handler"
	"github.com/noah-isme/clinic-admin-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityLogHandler *handler.ActivityLogHandler
	SystemLogHandler   *handler.SystemLogHandler
	DashboardHandler   *handler.DashboardHandler
	ModerationHandler  *handler.ModerationHandler
	ExportHandler      *handler.ExportHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for liveness & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	admin := app.Group("/api/admin")

	if deps.ActivityLogHandler != nil {
		deps.ActivityLogHandler.Register(admin)
	}
	if deps.SystemLogHandler != nil {
		deps.SystemLogHandler.Register(admin)
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(admin)
	}
	if deps.ModerationHandler != nil {
		deps.ModerationHandler.Register(admin)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.Register(admin)
	}
}
