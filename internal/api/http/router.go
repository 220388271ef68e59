package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/observability"
)

// NewApp builds a fiber app with the settings shared by both services.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
	})
}

// TicketRouteConfig bundles dependencies for the ticket service routes.
type TicketRouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
	Metrics *observability.Metrics
}

// RegisterTicketRoutes wires the ticket service routes. Static segments are
// registered before the :ticketId parameter.
func RegisterTicketRoutes(app *fiber.App, cfg TicketRouteConfig) {
	registerOperationalRoutes(app, cfg.Health, cfg.Metrics)

	tickets := app.Group("/tickets")
	tickets.Post("/create", cfg.Tickets.CreateTicket)
	tickets.Get("/all", cfg.Tickets.ListAll)
	tickets.Get("/employee/:employeeId", cfg.Tickets.ListByEmployee)
	tickets.Get("/priority/:priority", cfg.Tickets.ListByPriority)
	tickets.Get("/:ticketId", cfg.Tickets.GetTicket)
}

// StatusRouteConfig bundles dependencies for the status service routes.
type StatusRouteConfig struct {
	Health  *handlers.HealthHandler
	Status  *handlers.StatusHandler
	Metrics *observability.Metrics
}

// RegisterStatusRoutes wires the status service routes.
func RegisterStatusRoutes(app *fiber.App, cfg StatusRouteConfig) {
	registerOperationalRoutes(app, cfg.Health, cfg.Metrics)

	app.Get("/status", cfg.Status.AllCurrentStatuses)
	status := app.Group("/status")
	status.Post("/update", cfg.Status.UpdateStatus)
	status.Get("/all", cfg.Status.AllCurrentStatuses)
	status.Get("/summary/:date", cfg.Status.DailySummary)
	status.Get("/:ticketId/history", cfg.Status.StatusHistory)
	status.Get("/:ticketId", cfg.Status.CurrentStatus)
}

func registerOperationalRoutes(app *fiber.App, health *handlers.HealthHandler, metrics *observability.Metrics) {
	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}
