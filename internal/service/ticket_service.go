package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Now        func() time.Time
}

// TicketCreateInput describes ticket creation payload. Fields are expected to be
// validated and trimmed by the transport layer.
type TicketCreateInput struct {
	EmployeeID    int64
	EmployeeName  string
	IssueCategory domain.IssueCategory
	Description   string
	Priority      domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// CreateTicket persists a ticket and announces it on the dispatcher. Subscriber
// failures never fail the creation.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if input.EmployeeID <= 0 || !input.IssueCategory.Valid() || !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid ticket", map[string]any{
			"employeeId":    input.EmployeeID,
			"issueCategory": input.IssueCategory,
			"priority":      input.Priority,
		})
	}

	ticket := &domain.Ticket{
		EmployeeID:    input.EmployeeID,
		EmployeeName:  input.EmployeeName,
		IssueCategory: input.IssueCategory,
		Description:   input.Description,
		Priority:      input.Priority,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Info("ticket created",
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("employee_id", ticket.EmployeeID),
		zap.String("priority", string(ticket.Priority)))

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    domain.SystemActor,
		Payload: events.TicketCreatedPayload{
			EmployeeID:    ticket.EmployeeID,
			IssueCategory: ticket.IssueCategory,
			Priority:      ticket.Priority,
			CreatedAt:     ticket.CreatedAt,
		},
	})
	return ticket, nil
}

// GetTicket returns a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewTicketNotFound(id)
		}
		return nil, err
	}
	return ticket, nil
}

// ListByEmployee returns the tickets raised by an employee. Unknown employees yield
// an empty list.
func (s *TicketService) ListByEmployee(ctx context.Context, employeeID int64) ([]domain.Ticket, error) {
	return s.tickets.ListByEmployee(ctx, employeeID)
}

// ListByPriority returns the tickets with the given priority.
func (s *TicketService) ListByPriority(ctx context.Context, priority domain.TicketPriority) ([]domain.Ticket, error) {
	return s.tickets.ListByPriority(ctx, priority)
}

// ListAll returns every ticket ordered by id.
func (s *TicketService) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListAll(ctx)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
	}
}
