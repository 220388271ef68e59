package service

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketLookup resolves tickets owned by the ticket service. Implementations must
// classify failures with errorutil: NOT_FOUND, VALIDATION_FAILED or DEPENDENCY_UNAVAILABLE.
type TicketLookup interface {
	GetTicket(ctx context.Context, id int64) (*domain.Ticket, error)
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
}

// InitialStatusNotifier records the initial OPEN status of a new ticket.
type InitialStatusNotifier interface {
	NotifyCreated(ctx context.Context, ticketID int64) error
}
