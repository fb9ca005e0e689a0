package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/syndic-console/reclamation-service/internal/api/http/handlers"
	"github.com/syndic-console/reclamation-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Reclamations   *handlers.ReclamationsHandler
	Charges        *handlers.ChargesHandler
	Payments       *handlers.PaymentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireRole())
	syndic := auth.RequireSyndic()
	resident := auth.RequireResident()

	rec := api.Group("/reclamations")
	rec.Get("/", cfg.Reclamations.List)
	rec.Post("/", resident, cfg.Reclamations.Create)
	rec.Get("/statistics", syndic, cfg.Reclamations.Statistics)
	rec.Get("/:id", cfg.Reclamations.Get)
	rec.Patch("/:id", syndic, cfg.Reclamations.Update)
	rec.Delete("/:id", syndic, cfg.Reclamations.Delete)
	rec.Post("/:id/status", syndic, cfg.Reclamations.Transition)
	rec.Post("/:id/response", syndic, cfg.Reclamations.Respond)
	rec.Get("/:id/history", cfg.Reclamations.History)

	charges := api.Group("/charges")
	charges.Get("/", cfg.Charges.List)
	charges.Post("/bulk", syndic, cfg.Charges.BulkCreate)

	payments := api.Group("/payments")
	payments.Get("/", cfg.Payments.List)
	payments.Post("/", resident, cfg.Payments.Create)
	payments.Post("/:id/confirm", syndic, cfg.Payments.Confirm)
	payments.Post("/:id/reject", syndic, cfg.Payments.Reject)
	payments.Get("/:id/history", cfg.Payments.History)
}
