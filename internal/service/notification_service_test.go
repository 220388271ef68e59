package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

func TestSeedDoesNotBlockTicketCreation(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	notifier := &fakeNotifier{block: make(chan struct{})}
	notifications := NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		Notifier:   notifier,
		Metrics:    observability.NewMetrics(),
		Timeout:    time.Second,
	})
	notifications.RegisterHandlers()

	tickets := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewMemoryTicketRepository(nil),
		Dispatcher: dispatcher,
	})

	done := make(chan *domain.Ticket, 1)
	go func() {
		ticket, err := tickets.CreateTicket(context.Background(), createInput(5, domain.TicketPriorityHigh))
		assert.NoError(t, err)
		done <- ticket
	}()

	var ticket *domain.Ticket
	select {
	case ticket = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ticket creation waited for the status seed")
	}

	close(notifier.block)
	notifications.Wait()

	seeded, _ := notifier.snapshot()
	assert.Equal(t, []int64{ticket.ID}, seeded)
}

func TestSeedSurvivesRequestCancellation(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	notifier := &fakeNotifier{block: make(chan struct{})}
	notifications := NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		Notifier:   notifier,
		Timeout:    5 * time.Second,
	})
	notifications.RegisterHandlers()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventTicketCreated, TicketID: 11}))
	cancel()
	close(notifier.block)
	notifications.Wait()

	seeded, ctxErrs := notifier.snapshot()
	assert.Equal(t, []int64{11}, seeded)
	assert.Equal(t, []error{nil}, ctxErrs)
}

func TestSeedFailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	notifier := &fakeNotifier{err: apperrors.NewDependencyUnavailable("ticket-status-service", errors.New("dial tcp: refused"))}
	notifications := NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		Notifier:   notifier,
		Logger:     zap.New(core),
	})
	notifications.RegisterHandlers()

	tickets := NewTicketService(TicketDependencies{
		TicketRepo: repository.NewMemoryTicketRepository(nil),
		Dispatcher: dispatcher,
		Logger:     zap.New(core),
	})
	ticket, err := tickets.CreateTicket(context.Background(), createInput(5, domain.TicketPriorityLow))
	require.NoError(t, err)
	notifications.Wait()

	failures := logs.FilterMessage("initial status notification failed").All()
	require.Len(t, failures, 1)
	fields := failures[0].ContextMap()
	assert.Equal(t, ticket.ID, fields["ticket_id"])
	assert.Equal(t, observability.OutcomeUnavailable, fields["outcome"])
}

func TestStatusRecordedIsAudited(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		Logger:     zap.New(core),
	}).RegisterHandlers()

	svc := NewStatusService(StatusDependencies{
		EventRepo:  repository.NewMemoryStatusEventRepository(),
		Tickets:    newFakeLookup(ticketAt(1, time.Now())),
		Dispatcher: dispatcher,
	})
	_, err := svc.UpdateStatus(context.Background(), 1, domain.TicketStatusResolved, "erin")
	require.NoError(t, err)

	entries := logs.FilterMessage("TicketStatusRecorded").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "RESOLVED", fields["status"])
	assert.Equal(t, "erin", fields["updated_by"])
}

func TestNotifierlessServiceIgnoresCreatedTickets(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	notifications := NewNotificationService(NotificationDependencies{Dispatcher: dispatcher})
	notifications.RegisterHandlers()

	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketCreated, TicketID: 1}))
	notifications.Wait()
}
