package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/answerly/answerly-api/internal/config"
	"github.com/answerly/answerly-api/internal/handler"
	"github.com/answerly/answerly-api/internal/middleware"
	"github.com/answerly/answerly-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	EvaluationHandler *handler.EvaluationHandler
	UploadHandler     *handler.UploadHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	app.Get("/api/v1/health", handler.HealthCheck(cfg))
	app.Get("/fetch/", handler.ConnectivityProbe())
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api)
	}

	if deps.UserHandler != nil {
		protected := app.Group("/api", jwtMiddleware)
		deps.UserHandler.Register(protected)
	}

	// Scoring runs are the expensive surface; keep them rate limited.
	if deps.EvaluationHandler != nil {
		evaluate := app.Group("/evaluate", middleware.RateLimit("evaluate", 30, time.Minute))
		deps.EvaluationHandler.Register(evaluate)
	}

	if deps.UploadHandler != nil {
		upload := app.Group("/api/upload", middleware.RateLimit("upload", 60, time.Minute))
		deps.UploadHandler.Register(upload, jwtMiddleware)
	}
}
