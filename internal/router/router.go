package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/transify-app/transify-api/internal/config"
	"github.com/transify-app/transify-api/internal/handler"
	"github.com/transify-app/transify-api/internal/middleware"
	"github.com/transify-app/transify-api/internal/observability"
	"github.com/transify-app/transify-api/internal/rbac"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	OrganizationHandler *handler.OrganizationHandler
	AdminHandler        *handler.AdminHandler
	AuthHandler         *handler.AuthHandler
	AuditHandler        *handler.AuditHandler
	SeedHandler         *handler.SeedHandler
	SessionHandler      *handler.SessionHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.OrganizationHandler != nil {
		org := app.Group("/api/org")
		deps.OrganizationHandler.Register(org)
	}

	admin := app.Group("/api/admin")

	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(admin)
	}
	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(admin, middleware.RateLimit("send-otp", 5, time.Minute))
	}
	if deps.AuditHandler != nil {
		deps.AuditHandler.Register(admin)
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(admin)
	}
	if deps.SessionHandler != nil {
		authed := app.Group("/api/admin", jwtMiddleware, middleware.RequirePermission(rbac.PermViewAnalytics))
		deps.SessionHandler.Register(authed)
	}
}
