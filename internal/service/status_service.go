package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

const defaultLookupConcurrency = 8

// StatusService records status events and derives current status, history and
// daily summaries. Every per-ticket operation is verified against the ticket
// service before any read or write.
type StatusService struct {
	events      repository.StatusEventRepository
	tickets     TicketLookup
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time
	location    *time.Location
	concurrency int
}

// StatusDependencies bundles collaborators for the status service.
type StatusDependencies struct {
	EventRepo   repository.StatusEventRepository
	Tickets     TicketLookup
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Now         func() time.Time
	Location    *time.Location
	Concurrency int
}

// NewStatusService constructs the service.
func NewStatusService(deps StatusDependencies) *StatusService {
	svc := &StatusService{
		events:      deps.EventRepo,
		tickets:     deps.Tickets,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		now:         deps.Now,
		location:    deps.Location,
		concurrency: deps.Concurrency,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.location == nil {
		svc.location = time.Local
	}
	if svc.concurrency <= 0 {
		svc.concurrency = defaultLookupConcurrency
	}
	return svc
}

// Location is the timezone used for daily summary windows.
func (s *StatusService) Location() *time.Location {
	return s.location
}

// UpdateStatus appends a status event after confirming the ticket exists.
func (s *StatusService) UpdateStatus(ctx context.Context, ticketID int64, status domain.TicketStatus, updatedBy string) (*domain.StatusEvent, error) {
	if ticketID <= 0 || !status.Valid() || strings.TrimSpace(updatedBy) == "" {
		return nil, apperrors.NewValidationError("invalid status update", map[string]any{
			"ticketId":  ticketID,
			"status":    status,
			"updatedBy": updatedBy,
		})
	}
	if _, err := s.tickets.GetTicket(ctx, ticketID); err != nil {
		return nil, err
	}

	event := &domain.StatusEvent{
		TicketID:  ticketID,
		Status:    status,
		UpdatedBy: updatedBy,
		UpdatedAt: s.now(),
	}
	if err := s.events.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("append status event: %w", err)
	}
	s.metrics.RecordStatusEvent(string(status))

	s.publishEvent(ctx, events.Event{
		Type:      events.EventStatusRecorded,
		TicketID:  ticketID,
		Actor:     updatedBy,
		Timestamp: event.UpdatedAt,
		Payload: events.StatusRecordedPayload{
			EventID: event.ID,
			Status:  event.Status,
		},
	})
	return event, nil
}

// CurrentStatus returns the latest recorded status, or the default OPEN status
// when the ticket has no history.
func (s *StatusService) CurrentStatus(ctx context.Context, ticketID int64) (domain.StatusView, error) {
	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return s.currentStatusOf(ctx, *ticket)
}

// StatusHistory returns every event of a ticket, latest first. A ticket without
// events yields a single default entry.
func (s *StatusService) StatusHistory(ctx context.Context, ticketID int64) ([]domain.StatusView, error) {
	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	history, err := s.events.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list status events: %w", err)
	}
	if len(history) == 0 {
		return []domain.StatusView{domain.NewDefaultStatus(*ticket)}, nil
	}
	views := make([]domain.StatusView, 0, len(history))
	for _, event := range history {
		views = append(views, domain.RecordedStatus{Event: event})
	}
	return views, nil
}

// DailySummary counts the events recorded during the calendar day of date in the
// service location. Default statuses are not counted.
func (s *StatusService) DailySummary(ctx context.Context, date time.Time) (domain.StatusSummary, error) {
	date = date.In(s.location)
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.location)
	end := start.AddDate(0, 0, 1)

	counts, err := s.events.CountByStatus(ctx, start, end)
	if err != nil {
		return domain.StatusSummary{}, fmt.Errorf("count status events: %w", err)
	}
	summary := domain.NewStatusSummary(start)
	for _, status := range domain.TicketStatuses {
		summary.Counts[status] = counts[status]
		summary.Total += counts[status]
	}
	return summary, nil
}

// AllCurrentStatuses derives the current status of every ticket known to the
// ticket service, in ticket list order. A failed bulk lookup fails the whole call.
func (s *StatusService) AllCurrentStatuses(ctx context.Context) ([]domain.StatusView, error) {
	tickets, err := s.tickets.ListTickets(ctx)
	if err != nil {
		if apperrors.IsDependencyUnavailable(err) {
			return nil, err
		}
		return nil, apperrors.NewDependencyUnavailable("ticket-service", err)
	}

	views := make([]domain.StatusView, len(tickets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range tickets {
		i := i
		g.Go(func() error {
			view, err := s.currentStatusOf(gctx, tickets[i])
			if err != nil {
				return err
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *StatusService) currentStatusOf(ctx context.Context, ticket domain.Ticket) (domain.StatusView, error) {
	latest, err := s.events.Latest(ctx, ticket.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.NewDefaultStatus(ticket), nil
		}
		return nil, fmt.Errorf("latest status event: %w", err)
	}
	return domain.RecordedStatus{Event: *latest}, nil
}

func (s *StatusService) publishEvent(ctx context.Context, event events.Event) {
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
