package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventStatusRecorded EventType = "ticket_status_recorded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticketId"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	EmployeeID    int64                 `json:"employeeId"`
	IssueCategory domain.IssueCategory  `json:"issueCategory"`
	Priority      domain.TicketPriority `json:"priority"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// StatusRecordedPayload payload.
type StatusRecordedPayload struct {
	EventID int64               `json:"eventId"`
	Status  domain.TicketStatus `json:"status"`
}
