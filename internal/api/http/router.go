package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-tracker/internal/api/http/handlers"
	"github.com/spec-kit/staff-tracker/internal/api/ws"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Console       *handlers.ConsoleHandler
	Staff         *handlers.StaffHandler
	Notifications *handlers.NotificationsHandler
	Hub           *ws.Hub
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Get("/", cfg.Console.Page)
	app.Get("/roster/table", cfg.Console.Table)
	app.Get("/notifications", cfg.Console.Notifications)

	api := app.Group("/api")
	api.Get("/staff", cfg.Staff.List)
	api.Get("/selection", cfg.Staff.GetSelection)
	api.Post("/selection", cfg.Staff.Select)
	api.Delete("/selection", cfg.Staff.ClearSelection)
	api.Post("/clock-out", cfg.Staff.ClockOut)
	api.Post("/staff/:id/clock-in", cfg.Staff.ClockIn)
	api.Post("/roster/reload", cfg.Staff.Reload)

	api.Get("/notifications", cfg.Notifications.List)
	api.Delete("/notifications/:id", cfg.Notifications.Dismiss)

	if cfg.Hub != nil {
		app.Use("/ws", upgradeOnly)
		app.Get("/ws", websocket.New(ws.Handler(cfg.Hub)))
	}
}

func upgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}
