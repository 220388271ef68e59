package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	EmployeeID    int64                 `json:"employeeId"`
	EmployeeName  string                `json:"employeeName"`
	IssueCategory domain.IssueCategory  `json:"issueCategory"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
}

// Validate trims free text and checks every field.
func (r *CreateTicketRequest) Validate() error {
	r.EmployeeName = strings.TrimSpace(r.EmployeeName)
	r.Description = strings.TrimSpace(r.Description)

	errs := fieldErrors{}
	errs.positive("employeeId", r.EmployeeID)
	errs.length("employeeName", r.EmployeeName, 2, 100)
	if !r.IssueCategory.Valid() {
		errs.add("issueCategory", "must be one of "+enumValues(domain.IssueCategories))
	}
	errs.length("description", r.Description, 10, 1000)
	if !r.Priority.Valid() {
		errs.add("priority", "must be one of "+enumValues(domain.TicketPriorities))
	}
	return errs.err()
}

// ToDomain builds the ticket to persist.
func (r CreateTicketRequest) ToDomain() domain.Ticket {
	return domain.Ticket{
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		IssueCategory: r.IssueCategory,
		Description:   r.Description,
		Priority:      r.Priority,
	}
}

// TicketResponse is the ticket representation shared by both services.
type TicketResponse struct {
	TicketID      int64                 `json:"ticketId"`
	EmployeeID    int64                 `json:"employeeId"`
	EmployeeName  string                `json:"employeeName"`
	IssueCategory domain.IssueCategory  `json:"issueCategory"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		TicketID:      ticket.ID,
		EmployeeID:    ticket.EmployeeID,
		EmployeeName:  ticket.EmployeeName,
		IssueCategory: ticket.IssueCategory,
		Description:   ticket.Description,
		Priority:      ticket.Priority,
		CreatedAt:     ticket.CreatedAt,
	}
}

// NewTicketResponses maps a list, never returning nil.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}

// ToDomain converts a decoded representation back into a ticket.
func (r TicketResponse) ToDomain() domain.Ticket {
	return domain.Ticket{
		ID:            r.TicketID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		IssueCategory: r.IssueCategory,
		Description:   r.Description,
		Priority:      r.Priority,
		CreatedAt:     r.CreatedAt,
	}
}

// ParsePriority validates a priority path segment.
func ParsePriority(raw string) (domain.TicketPriority, error) {
	priority := domain.TicketPriority(raw)
	if !priority.Valid() {
		errs := fieldErrors{}
		errs.add("priority", "must be one of "+enumValues(domain.TicketPriorities))
		return "", errs.err()
	}
	return priority, nil
}
