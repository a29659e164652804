package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-tracker/internal/service"
	"github.com/spec-kit/staff-tracker/internal/view"
	apperrors "github.com/spec-kit/staff-tracker/pkg/util/errorutil"
)

// ConsoleHandler serves the HTML console and its fragments.
type ConsoleHandler struct {
	title         string
	renderer      *view.Renderer
	roster        *service.RosterService
	controller    *service.Controller
	notifications *service.NotificationService
}

// NewConsoleHandler constructs handler.
func NewConsoleHandler(title string, renderer *view.Renderer, roster *service.RosterService, controller *service.Controller, notifications *service.NotificationService) *ConsoleHandler {
	return &ConsoleHandler{
		title:         title,
		renderer:      renderer,
		roster:        roster,
		controller:    controller,
		notifications: notifications,
	}
}

// Page handles GET /.
func (h *ConsoleHandler) Page(c *fiber.Ctx) error {
	selected, _ := h.controller.Selected()
	html, err := h.renderer.RenderPage(h.title, h.roster.Snapshot(), selected, h.notifications.List())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return sendHTML(c, html)
}

// Table handles GET /roster/table.
func (h *ConsoleHandler) Table(c *fiber.Ctx) error {
	selected, _ := h.controller.Selected()
	html, err := h.renderer.RenderTable(h.roster.Snapshot(), selected)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return sendHTML(c, html)
}

// Notifications handles GET /notifications.
func (h *ConsoleHandler) Notifications(c *fiber.Ctx) error {
	var out string
	for _, n := range h.notifications.List() {
		html, err := h.renderer.RenderNotification(n)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		out += html
	}
	return sendHTML(c, out)
}

func sendHTML(c *fiber.Ctx, html string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}
