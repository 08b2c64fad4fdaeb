package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/placement-portal-api/internal/config"
	"github.com/noah-isme/placement-portal-api/internal/handler"
	"github.com/noah-isme/placement-portal-api/internal/middleware"
	"github.com/noah-isme/placement-portal-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler          *handler.AuthHandler
	NoticeHandler        *handler.NoticeHandler
	NoticeLiveHandler    *handler.NoticeLiveHandler
	StudentHandler       *handler.StudentHandler
	AdminStudentHandler  *handler.AdminStudentHandler
	AdminActivityHandler *handler.AdminActivityHandler
	HealthProbes         []handler.HealthProbe
	JWTMiddleware        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes...))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"), jwtMiddleware)
	}

	notices := api.Group("/notices")
	if deps.NoticeLiveHandler != nil {
		deps.NoticeLiveHandler.Register(notices, jwtMiddleware)
	}
	if deps.NoticeHandler != nil {
		deps.NoticeHandler.Register(notices, jwtMiddleware)
	}

	// Self-service routes go first so /profile never resolves as a USN.
	students := api.Group("/students")
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(students, jwtMiddleware)
	}
	if deps.AdminStudentHandler != nil {
		deps.AdminStudentHandler.Register(students, jwtMiddleware)
	}

	// Everything under /admin is administrator only.
	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(middleware.AuthRoleAdmin))
	if deps.AdminActivityHandler != nil {
		deps.AdminActivityHandler.Register(admin.Group("/activities"), nil)
	}
}
