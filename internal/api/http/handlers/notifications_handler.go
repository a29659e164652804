package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-tracker/internal/api/dto"
	"github.com/spec-kit/staff-tracker/internal/service"
)

// NotificationsHandler exposes the late notification board.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	list := h.notifications.List()
	resp := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, dto.NotificationResponse{
			ID:              n.ID,
			StaffID:         n.StaffID,
			Photo:           n.Photo,
			FullName:        n.FullName,
			DurationMinutes: n.DurationMinutes,
			Message:         n.Message(),
			RaisedAt:        n.RaisedAt,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Dismiss handles DELETE /api/notifications/:id.
func (h *NotificationsHandler) Dismiss(c *fiber.Ctx) error {
	if err := h.notifications.Dismiss(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
