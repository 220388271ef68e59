package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
)

// StatusHandler serves the status engine endpoints.
type StatusHandler struct {
	service *service.StatusService
}

// NewStatusHandler constructs handler.
func NewStatusHandler(statusService *service.StatusService) *StatusHandler {
	return &StatusHandler{service: statusService}
}

// UpdateStatus POST /status/update.
func (h *StatusHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.StatusUpdateRequest
	if err := parseJSONBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	event, err := h.service.UpdateStatus(c.UserContext(), req.TicketID, req.Status, req.UpdatedBy)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStatusHistoryResponse(domain.RecordedStatus{Event: *event}))
}

// CurrentStatus GET /status/:ticketId.
func (h *StatusHandler) CurrentStatus(c *fiber.Ctx) error {
	id, err := dto.ParseID("ticketId", c.Params("ticketId"))
	if err != nil {
		return err
	}
	view, err := h.service.CurrentStatus(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCurrentStatusResponse(view))
}

// StatusHistory GET /status/:ticketId/history.
func (h *StatusHandler) StatusHistory(c *fiber.Ctx) error {
	id, err := dto.ParseID("ticketId", c.Params("ticketId"))
	if err != nil {
		return err
	}
	history, err := h.service.StatusHistory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStatusHistoryResponses(history))
}

// DailySummary GET /status/summary/:date.
func (h *StatusHandler) DailySummary(c *fiber.Ctx) error {
	date, err := dto.ParseDate(c.Params("date"), h.service.Location())
	if err != nil {
		return err
	}
	summary, err := h.service.DailySummary(c.UserContext(), date)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStatusSummaryResponse(summary))
}

// AllCurrentStatuses GET /status/all and GET /status.
func (h *StatusHandler) AllCurrentStatuses(c *fiber.Ctx) error {
	views, err := h.service.AllCurrentStatuses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCurrentStatusResponses(views))
}
