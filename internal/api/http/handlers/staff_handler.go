package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-tracker/internal/api/dto"
	"github.com/spec-kit/staff-tracker/internal/domain"
	"github.com/spec-kit/staff-tracker/internal/service"
	"github.com/spec-kit/staff-tracker/internal/view"
	apperrors "github.com/spec-kit/staff-tracker/pkg/util/errorutil"
)

// StaffHandler exposes roster, selection and clock endpoints.
type StaffHandler struct {
	roster     *service.RosterService
	controller *service.Controller
}

// NewStaffHandler constructs handler.
func NewStaffHandler(roster *service.RosterService, controller *service.Controller) *StaffHandler {
	return &StaffHandler{roster: roster, controller: controller}
}

// List handles GET /api/staff.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	selected, _ := h.controller.Selected()
	members := h.roster.Snapshot()
	resp := make([]dto.StaffResponse, 0, len(members))
	for i := range members {
		resp = append(resp, staffResponse(&members[i], selected))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Select handles POST /api/selection.
func (h *StaffHandler) Select(c *fiber.Ctx) error {
	var req dto.SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID <= 0 {
		return apperrors.NewValidationError("id required", map[string]any{"field": "id"})
	}
	if err := h.controller.Select(c.UserContext(), req.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": selectionResponse(h.controller)})
}

// ClearSelection handles DELETE /api/selection.
func (h *StaffHandler) ClearSelection(c *fiber.Ctx) error {
	h.controller.ClearSelection(c.UserContext())
	return c.JSON(fiber.Map{"data": selectionResponse(h.controller)})
}

// GetSelection handles GET /api/selection.
func (h *StaffHandler) GetSelection(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": selectionResponse(h.controller)})
}

// ClockOut handles POST /api/clock-out.
func (h *StaffHandler) ClockOut(c *fiber.Ctx) error {
	var req dto.ClockOutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	member, err := h.controller.ClockOut(c.UserContext(), req.Duration.String())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(&member, member.ID)})
}

// ClockIn handles POST /api/staff/:id/clock-in.
func (h *StaffHandler) ClockIn(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperrors.NewValidationError("invalid staff id", map[string]any{"id": c.Params("id")})
	}
	member, err := h.controller.ClockIn(c.UserContext(), id)
	if err != nil {
		return err
	}
	selected, _ := h.controller.Selected()
	return c.JSON(fiber.Map{"data": staffResponse(&member, selected)})
}

// Reload handles POST /api/roster/reload.
func (h *StaffHandler) Reload(c *fiber.Ctx) error {
	members, err := h.roster.Load(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.StaffResponse, 0, len(members))
	for i := range members {
		resp = append(resp, staffResponse(&members[i], 0))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"data": resp})
}

func selectionResponse(controller *service.Controller) dto.SelectionResponse {
	if id, ok := controller.Selected(); ok {
		return dto.SelectionResponse{SelectedID: &id}
	}
	return dto.SelectionResponse{}
}

func staffResponse(m *domain.StaffMember, selectedID int) dto.StaffResponse {
	resp := dto.StaffResponse{
		ID:                 m.ID,
		Name:               m.Name,
		Surname:            m.Surname,
		Email:              m.Email,
		Photo:              m.Photo,
		Status:             string(m.Status),
		OutTime:            m.OutTime,
		Duration:           m.Duration,
		ExpectedReturnTime: m.ExpectedReturnTime,
		NotifiedLate:       m.NotifiedLate,
		Selected:           selectedID != 0 && m.ID == selectedID,
	}
	if m.Duration != nil {
		resp.DurationLabel = view.FormatDuration(*m.Duration)
	}
	return resp
}
