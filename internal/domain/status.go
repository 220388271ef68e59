package domain

import "time"

// TicketStatus enumerates lifecycle states recorded by the status engine.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketStatuses lists every status in declaration order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether s is a declared status. Matching is case-sensitive.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// SystemActor attributes the virtual default status and the initial seed event.
const SystemActor = "system"

// StatusEvent is an immutable status transition. Events for a ticket are append-only.
type StatusEvent struct {
	ID        int64
	TicketID  int64
	Status    TicketStatus
	UpdatedBy string
	UpdatedAt time.Time
}

// StatusView is the current status of a ticket: either a RecordedStatus backed by a
// persisted event, or a DefaultStatus synthesized from the ticket's creation time.
type StatusView interface {
	TicketID() int64
	Status() TicketStatus
	UpdatedBy() string
	UpdatedAt() time.Time
	statusView()
}

// RecordedStatus wraps a persisted event.
type RecordedStatus struct {
	Event StatusEvent
}

func (r RecordedStatus) TicketID() int64      { return r.Event.TicketID }
func (r RecordedStatus) Status() TicketStatus { return r.Event.Status }
func (r RecordedStatus) UpdatedBy() string    { return r.Event.UpdatedBy }
func (r RecordedStatus) UpdatedAt() time.Time { return r.Event.UpdatedAt }
func (RecordedStatus) statusView()            {}

// DefaultStatus is the virtual OPEN status of a ticket with no recorded events.
// It is never persisted.
type DefaultStatus struct {
	Ticket          int64
	TicketCreatedAt time.Time
}

// NewDefaultStatus derives the default status for t.
func NewDefaultStatus(t Ticket) DefaultStatus {
	return DefaultStatus{Ticket: t.ID, TicketCreatedAt: t.CreatedAt}
}

func (d DefaultStatus) TicketID() int64      { return d.Ticket }
func (DefaultStatus) Status() TicketStatus   { return TicketStatusOpen }
func (DefaultStatus) UpdatedBy() string      { return SystemActor }
func (d DefaultStatus) UpdatedAt() time.Time { return d.TicketCreatedAt }
func (DefaultStatus) statusView()            {}

// IsDefault reports whether v was synthesized rather than recorded.
func IsDefault(v StatusView) bool {
	_, ok := v.(DefaultStatus)
	return ok
}

// StatusSummary aggregates persisted events recorded during one day.
type StatusSummary struct {
	Date   time.Time
	Counts map[TicketStatus]int64
	Total  int64
}

// NewStatusSummary returns a summary with a zero count for every status.
func NewStatusSummary(date time.Time) StatusSummary {
	counts := make(map[TicketStatus]int64, len(TicketStatuses))
	for _, status := range TicketStatuses {
		counts[status] = 0
	}
	return StatusSummary{Date: date, Counts: counts}
}

// Add tallies one event.
func (s *StatusSummary) Add(status TicketStatus) {
	s.Counts[status]++
	s.Total++
}
