package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

// stubTickets is a TicketLookup backed by a map.
type stubTickets struct {
	mu      sync.Mutex
	tickets map[int64]domain.Ticket
	err     error
	gets    int
}

func newStubTickets(tickets ...domain.Ticket) *stubTickets {
	s := &stubTickets{tickets: map[int64]domain.Ticket{}}
	for _, t := range tickets {
		s.tickets[t.ID] = t
	}
	return s
}

func (s *stubTickets) GetTicket(_ context.Context, id int64) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.err != nil {
		return nil, s.err
	}
	t, ok := s.tickets[id]
	if !ok {
		return nil, apperrors.NewTicketNotFound(id)
	}
	return &t, nil
}

func (s *stubTickets) ListTickets(context.Context) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubTickets) getCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

type recordingNotifier struct {
	mu  sync.Mutex
	ids []int64
}

func (r *recordingNotifier) NotifyCreated(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
	return nil
}

func (r *recordingNotifier) seeded() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.ids...)
}

type ticketApp struct {
	app           *fiber.App
	notifications *service.NotificationService
}

func newTicketApp(t *testing.T, notifier service.InitialStatusNotifier, now func() time.Time) ticketApp {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notifications := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Notifier:   notifier,
		Logger:     logger,
		Metrics:    metrics,
		Timeout:    2 * time.Second,
	})
	notifications.RegisterHandlers()

	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewMemoryTicketRepository(now),
		Dispatcher: dispatcher,
		Logger:     logger,
		Now:        now,
	})

	app := NewApp("ticket-service-test")
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterTicketRoutes(app, TicketRouteConfig{
		Health:  handlers.NewHealthHandler("ticket-service", "test"),
		Tickets: handlers.NewTicketsHandler(tickets),
		Metrics: metrics,
	})
	t.Cleanup(notifications.Wait)
	return ticketApp{app: app, notifications: notifications}
}

type statusApp struct {
	app     *fiber.App
	history *repository.MemoryStatusEventRepository
}

func newStatusApp(t *testing.T, lookup service.TicketLookup, now func() time.Time, loc *time.Location) statusApp {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	service.NewNotificationService(service.NotificationDependencies{Dispatcher: dispatcher, Logger: logger}).RegisterHandlers()

	history := repository.NewMemoryStatusEventRepository()
	statuses := service.NewStatusService(service.StatusDependencies{
		EventRepo:  history,
		Tickets:    lookup,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
		Now:        now,
		Location:   loc,
	})

	app := NewApp("ticket-status-service-test")
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterStatusRoutes(app, StatusRouteConfig{
		Health: handlers.NewHealthHandler("ticket-status-service", "test", handlers.DependencyCheck{
			Name: "ticket-service",
			Ping: func(ctx context.Context) error { _, err := lookup.ListTickets(ctx); return err },
		}),
		Status:  handlers.NewStatusHandler(statuses),
		Metrics: metrics,
	})
	return statusApp{app: app, history: history}
}
