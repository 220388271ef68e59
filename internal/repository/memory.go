package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// MemoryTicketRepository keeps tickets in process memory. It backs the ticket
// service when no POSTGRES_DSN is configured, and tests.
type MemoryTicketRepository struct {
	mu      sync.RWMutex
	nextID  int64
	tickets map[int64]domain.Ticket
	now     func() time.Time
}

// NewMemoryTicketRepository builds an empty store. now defaults to time.Now.
func NewMemoryTicketRepository(now func() time.Time) *MemoryTicketRepository {
	if now == nil {
		now = time.Now
	}
	return &MemoryTicketRepository{tickets: make(map[int64]domain.Ticket), now: now}
}

func (r *MemoryTicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ticket.ID = r.nextID
	ticket.CreatedAt = r.now()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *MemoryTicketRepository) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ticket, nil
}

func (r *MemoryTicketRepository) ListByEmployee(_ context.Context, employeeID int64) ([]domain.Ticket, error) {
	return r.filter(func(t domain.Ticket) bool { return t.EmployeeID == employeeID }), nil
}

func (r *MemoryTicketRepository) ListByPriority(_ context.Context, priority domain.TicketPriority) ([]domain.Ticket, error) {
	return r.filter(func(t domain.Ticket) bool { return t.Priority == priority }), nil
}

func (r *MemoryTicketRepository) ListAll(_ context.Context) ([]domain.Ticket, error) {
	return r.filter(func(domain.Ticket) bool { return true }), nil
}

func (r *MemoryTicketRepository) filter(keep func(domain.Ticket) bool) []domain.Ticket {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Ticket{}
	for _, ticket := range r.tickets {
		if keep(ticket) {
			result = append(result, ticket)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// MemoryStatusEventRepository keeps the status history in process memory.
type MemoryStatusEventRepository struct {
	mu     sync.RWMutex
	nextID int64
	events []domain.StatusEvent
}

// NewMemoryStatusEventRepository builds an empty history.
func NewMemoryStatusEventRepository() *MemoryStatusEventRepository {
	return &MemoryStatusEventRepository{}
}

func (r *MemoryStatusEventRepository) Append(_ context.Context, event *domain.StatusEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	event.ID = r.nextID
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = time.Now()
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *MemoryStatusEventRepository) Latest(ctx context.Context, ticketID int64) (*domain.StatusEvent, error) {
	events, _ := r.ListByTicket(ctx, ticketID)
	if len(events) == 0 {
		return nil, ErrNotFound
	}
	return &events[0], nil
}

func (r *MemoryStatusEventRepository) ListByTicket(_ context.Context, ticketID int64) ([]domain.StatusEvent, error) {
	r.mu.RLock()
	result := []domain.StatusEvent{}
	for _, event := range r.events {
		if event.TicketID == ticketID {
			result = append(result, event)
		}
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *MemoryStatusEventRepository) CountByStatus(_ context.Context, from, to time.Time) (map[domain.TicketStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[domain.TicketStatus]int64{}
	for _, event := range r.events {
		if event.UpdatedAt.Before(from) || !event.UpdatedAt.Before(to) {
			continue
		}
		counts[event.Status]++
	}
	return counts, nil
}

// Len returns the number of stored events.
func (r *MemoryStatusEventRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}
