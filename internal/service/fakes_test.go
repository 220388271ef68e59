package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// fakeLookup is an in-process TicketLookup.
type fakeLookup struct {
	mu        sync.Mutex
	tickets   map[int64]domain.Ticket
	getErr    error
	listErr   error
	getCalls  int
	listCalls int
}

func newFakeLookup(tickets ...domain.Ticket) *fakeLookup {
	f := &fakeLookup{tickets: map[int64]domain.Ticket{}}
	for _, t := range tickets {
		f.tickets[t.ID] = t
	}
	return f
}

func (f *fakeLookup) GetTicket(_ context.Context, id int64) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	t, ok := f.tickets[id]
	if !ok {
		return nil, apperrors.NewTicketNotFound(id)
	}
	return &t, nil
}

func (f *fakeLookup) ListTickets(context.Context) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Ticket, 0, len(f.tickets))
	for _, t := range f.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeLookup) calls() (get, list int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls, f.listCalls
}

// fakeClock returns t and then advances it by step on every call.
type fakeClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newFakeClock(start time.Time, step time.Duration) *fakeClock {
	return &fakeClock{t: start, step: step}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// fakeNotifier records seed requests.
type fakeNotifier struct {
	mu      sync.Mutex
	seeded  []int64
	err     error
	block   chan struct{}
	ctxErrs []error
}

func (f *fakeNotifier) NotifyCreated(ctx context.Context, ticketID int64) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeded = append(f.seeded, ticketID)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.err
}

func (f *fakeNotifier) snapshot() ([]int64, []error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.seeded...), append([]error(nil), f.ctxErrs...)
}

func ticketAt(id int64, createdAt time.Time) domain.Ticket {
	return domain.Ticket{
		ID:            id,
		EmployeeID:    100 + id,
		EmployeeName:  "Employee",
		IssueCategory: domain.IssueCategoryNetwork,
		Description:   "VPN drops every hour",
		Priority:      domain.TicketPriorityMedium,
		CreatedAt:     createdAt,
	}
}
