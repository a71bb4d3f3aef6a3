package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Complaints     *handlers.ComplaintsHandler
	Auth           *handlers.AuthHandler
	Customers      *handlers.CustomersHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	requireAuth := cfg.AuthMiddleware.Handle
	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", requireAuth, auth.RequireBearer(), cfg.Auth.Logout)

	complaints := api.Group("/complaints")
	complaints.Get("/", cfg.Complaints.List)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Post("/", requireAuth, cfg.Complaints.Create)
	complaints.Put("/:id", requireAuth, cfg.Complaints.Update)
	complaints.Delete("/:id", requireAuth, cfg.Complaints.Delete)

	api.Get("/customers/me", requireAuth, cfg.Customers.Me)
}
