package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
)

// TicketsHandler serves the ticket store endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets/create.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := parseJSONBody(c, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		EmployeeID:    req.EmployeeID,
		EmployeeName:  req.EmployeeName,
		IssueCategory: req.IssueCategory,
		Description:   req.Description,
		Priority:      req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// GetTicket GET /tickets/:ticketId.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := dto.ParseID("ticketId", c.Params("ticketId"))
	if err != nil {
		return err
	}
	ticket, err := h.service.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// ListByEmployee GET /tickets/employee/:employeeId.
func (h *TicketsHandler) ListByEmployee(c *fiber.Ctx) error {
	employeeID, err := dto.ParseID("employeeId", c.Params("employeeId"))
	if err != nil {
		return err
	}
	tickets, err := h.service.ListByEmployee(c.UserContext(), employeeID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// ListByPriority GET /tickets/priority/:priority.
func (h *TicketsHandler) ListByPriority(c *fiber.Ctx) error {
	priority, err := dto.ParsePriority(c.Params("priority"))
	if err != nil {
		return err
	}
	tickets, err := h.service.ListByPriority(c.UserContext(), priority)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// ListAll GET /tickets/all.
func (h *TicketsHandler) ListAll(c *fiber.Ctx) error {
	tickets, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}
