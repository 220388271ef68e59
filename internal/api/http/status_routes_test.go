package http

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

type settableClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *settableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(time.Second)
	return now
}

func (c *settableClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

var statusLoc = time.FixedZone("UTC+1", 60*60)

func statusFixture(t *testing.T) (statusApp, *stubTickets, *settableClock) {
	t.Helper()
	created := time.Date(2026, 1, 30, 15, 0, 0, 0, statusLoc)
	lookup := newStubTickets(
		domain.Ticket{ID: 1, EmployeeID: 5, IssueCategory: domain.IssueCategoryLaptop, Priority: domain.TicketPriorityHigh, CreatedAt: created},
		domain.Ticket{ID: 2, EmployeeID: 6, IssueCategory: domain.IssueCategoryAccess, Priority: domain.TicketPriorityLow, CreatedAt: created.Add(time.Hour)},
	)
	clock := &settableClock{t: time.Date(2026, 2, 1, 8, 0, 0, 0, statusLoc)}
	return newStatusApp(t, lookup, clock.Now, statusLoc), lookup, clock
}

func updateBody(ticketID int64, status, by string) string {
	return fmt.Sprintf(`{"ticketId":%d,"status":%q,"updatedBy":%q}`, ticketID, status, by)
}

func TestCurrentStatusDefault(t *testing.T) {
	sa, _, _ := statusFixture(t)

	status, raw := call(t, sa.app, http.MethodGet, "/status/1", "")
	require.Equal(t, http.StatusOK, status, string(raw))

	current := decode[dto.CurrentStatusResponse](t, raw)
	assert.True(t, current.IsDefault)
	assert.Equal(t, domain.TicketStatusOpen, current.CurrentStatus)
	assert.Equal(t, "system", current.LastUpdatedBy)
	assert.True(t, current.LastUpdatedAt.Equal(time.Date(2026, 1, 30, 15, 0, 0, 0, statusLoc)))
}

func TestUpdateThenReadCurrentStatus(t *testing.T) {
	sa, _, _ := statusFixture(t)

	status, raw := call(t, sa.app, http.MethodPost, "/status/update", updateBody(1, "IN_PROGRESS", "alice"))
	require.Equal(t, http.StatusOK, status, string(raw))
	entry := decode[dto.StatusHistoryResponse](t, raw)
	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, int64(1), entry.TicketID)

	status, raw = call(t, sa.app, http.MethodGet, "/status/1", "")
	require.Equal(t, http.StatusOK, status)
	current := decode[dto.CurrentStatusResponse](t, raw)
	assert.False(t, current.IsDefault)
	assert.Equal(t, domain.TicketStatusInProgress, current.CurrentStatus)
	assert.Equal(t, "alice", current.LastUpdatedBy)

	_, again := call(t, sa.app, http.MethodGet, "/status/1", "")
	assert.JSONEq(t, string(raw), string(again))
}

func TestUpdateUnknownTicket(t *testing.T) {
	sa, _, _ := statusFixture(t)

	status, raw := call(t, sa.app, http.MethodPost, "/status/update", updateBody(999, "CLOSED", "alice"))
	require.Equal(t, http.StatusNotFound, status)
	body := decode[errorBody](t, raw)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "ticket with id 999 not found", body.Error.Message)
	assert.Zero(t, sa.history.Len())
}

func TestUpdateValidationHappensBeforeLookup(t *testing.T) {
	sa, lookup, _ := statusFixture(t)

	for _, body := range []string{
		updateBody(1, "in_progress", "alice"),
		updateBody(1, "CLOSED", "al"),
		updateBody(1, "CLOSED", "alice smith"),
		updateBody(0, "CLOSED", "alice"),
		`{"ticketId":"1","status":"CLOSED","updatedBy":"alice"}`,
		`{"ticketId":01,"status":"CLOSED","updatedBy":"alice"}`,
	} {
		status, raw := call(t, sa.app, http.MethodPost, "/status/update", body)
		assert.Equal(t, http.StatusBadRequest, status, body)
		assert.Equal(t, "VALIDATION_FAILED", decode[errorBody](t, raw).Error.Code)
	}
	assert.Zero(t, lookup.getCalls())
	assert.Zero(t, sa.history.Len())
}

func TestTicketServiceUnavailable(t *testing.T) {
	sa, lookup, _ := statusFixture(t)
	lookup.err = apperrors.NewDependencyUnavailable("ticket-service", errors.New("connection refused"))

	for _, req := range []struct{ method, path, body string }{
		{http.MethodPost, "/status/update", updateBody(1, "CLOSED", "alice")},
		{http.MethodGet, "/status/1", ""},
		{http.MethodGet, "/status/1/history", ""},
		{http.MethodGet, "/status/all", ""},
	} {
		status, raw := call(t, sa.app, req.method, req.path, req.body)
		assert.Equal(t, http.StatusServiceUnavailable, status, req.path)
		assert.Equal(t, "DEPENDENCY_UNAVAILABLE", decode[errorBody](t, raw).Error.Code)
	}
	assert.Zero(t, sa.history.Len())

	status, _ := call(t, sa.app, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestHistoryRoutes(t *testing.T) {
	sa, _, clock := statusFixture(t)

	status, raw := call(t, sa.app, http.MethodGet, "/status/2/history", "")
	require.Equal(t, http.StatusOK, status)
	history := decode[[]dto.StatusHistoryResponse](t, raw)
	require.Len(t, history, 1)
	assert.Equal(t, int64(0), history[0].ID)
	assert.Equal(t, domain.TicketStatusOpen, history[0].Status)
	assert.Equal(t, "system", history[0].UpdatedBy)

	clock.Set(time.Date(2026, 2, 1, 9, 0, 0, 0, statusLoc))
	call(t, sa.app, http.MethodPost, "/status/update", updateBody(2, "RESOLVED", "bob"))
	clock.Set(time.Date(2026, 2, 1, 10, 0, 0, 0, statusLoc))
	call(t, sa.app, http.MethodPost, "/status/update", updateBody(2, "CLOSED", "bob"))

	status, raw = call(t, sa.app, http.MethodGet, "/status/2/history", "")
	require.Equal(t, http.StatusOK, status)
	history = decode[[]dto.StatusHistoryResponse](t, raw)
	require.Len(t, history, 2)
	assert.Equal(t, domain.TicketStatusClosed, history[0].Status)
	assert.Equal(t, domain.TicketStatusResolved, history[1].Status)

	status, _ = call(t, sa.app, http.MethodGet, "/status/3/history", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDailySummaryRoute(t *testing.T) {
	sa, _, clock := statusFixture(t)

	clock.Set(time.Date(2026, 2, 1, 10, 0, 0, 0, statusLoc))
	call(t, sa.app, http.MethodPost, "/status/update", updateBody(1, "IN_PROGRESS", "alice"))
	clock.Set(time.Date(2026, 2, 2, 0, 0, 1, 0, statusLoc))
	call(t, sa.app, http.MethodPost, "/status/update", updateBody(2, "IN_PROGRESS", "alice"))
	require.Equal(t, 2, sa.history.Len())

	status, raw := call(t, sa.app, http.MethodGet, "/status/summary/2026-02-01", "")
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.JSONEq(t, `{
		"date": "2026-02-01",
		"statusCounts": {"OPEN": 0, "IN_PROGRESS": 1, "RESOLVED": 0, "CLOSED": 0},
		"totalTickets": 1
	}`, string(raw))

	status, raw = call(t, sa.app, http.MethodGet, "/status/summary/2026-1-01", "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decode[errorBody](t, raw).Error.Message, "YYYY-MM-DD")
}

func TestAllCurrentStatusesRoutes(t *testing.T) {
	sa, _, _ := statusFixture(t)
	call(t, sa.app, http.MethodPost, "/status/update", updateBody(2, "RESOLVED", "bob"))

	status, raw := call(t, sa.app, http.MethodGet, "/status/all", "")
	require.Equal(t, http.StatusOK, status)
	all := decode[[]dto.CurrentStatusResponse](t, raw)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].TicketID)
	assert.True(t, all[0].IsDefault)
	assert.Equal(t, int64(2), all[1].TicketID)
	assert.Equal(t, domain.TicketStatusResolved, all[1].CurrentStatus)

	status, alias := call(t, sa.app, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, string(raw), string(alias))
}
