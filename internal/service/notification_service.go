package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

const defaultSeedTimeout = 3 * time.Second

// NotificationService reacts to domain events. On the ticket service it seeds the
// initial OPEN status of new tickets; on the status service it writes an audit
// log line per recorded status.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   InitialStatusNotifier
	logger     *zap.Logger
	metrics    *observability.Metrics
	timeout    time.Duration

	inflight sync.WaitGroup
}

// NotificationDependencies bundles collaborators for the notification service.
// Notifier may be nil, which disables seeding.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Notifier   InitialStatusNotifier
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Timeout    time.Duration
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	n := &NotificationService{
		dispatcher: deps.Dispatcher,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		timeout:    deps.Timeout,
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	if n.timeout <= 0 {
		n.timeout = defaultSeedTimeout
	}
	return n
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	if n.notifier != nil {
		n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	}
	n.dispatcher.Subscribe(events.EventStatusRecorded, n.handleStatusRecorded)
}

// Wait blocks until every in-flight seed has finished.
func (n *NotificationService) Wait() {
	n.inflight.Wait()
}

// handleTicketCreated returns immediately. The seed runs on its own goroutine with a
// context detached from the request so a finished or cancelled request never
// aborts it.
func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	seedCtx := context.WithoutCancel(ctx)
	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		n.seedInitialStatus(seedCtx, event.TicketID)
	}()
	return nil
}

func (n *NotificationService) seedInitialStatus(parent context.Context, ticketID int64) {
	ctx, cancel := context.WithTimeout(parent, n.timeout)
	defer cancel()

	err := n.notifier.NotifyCreated(ctx, ticketID)
	if err == nil {
		n.metrics.RecordStatusSeed(observability.OutcomeOK)
		n.logger.Debug("initial status recorded", zap.Int64("ticket_id", ticketID))
		return
	}

	outcome := observability.OutcomeUnavailable
	switch {
	case apperrors.IsNotFound(err):
		outcome = observability.OutcomeNotFound
	case apperrors.IsValidation(err):
		outcome = observability.OutcomeRejected
	}
	n.metrics.RecordStatusSeed(outcome)
	n.logger.Warn("initial status notification failed",
		zap.Int64("ticket_id", ticketID),
		zap.String("outcome", outcome),
		zap.Error(err))
}

func (n *NotificationService) handleStatusRecorded(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("updated_by", event.Actor),
		zap.Time("updated_at", event.Timestamp),
	}
	if payload, ok := event.Payload.(events.StatusRecordedPayload); ok {
		fields = append(fields,
			zap.Int64("status_event_id", payload.EventID),
			zap.String("status", string(payload.Status)))
	}
	n.logger.Info("TicketStatusRecorded", fields...)
	return nil
}
