package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// StatusUpdateRequest payload.
type StatusUpdateRequest struct {
	TicketID  int64               `json:"ticketId"`
	Status    domain.TicketStatus `json:"status"`
	UpdatedBy string              `json:"updatedBy"`
}

// Validate checks every field.
func (r *StatusUpdateRequest) Validate() error {
	errs := fieldErrors{}
	errs.positive("ticketId", r.TicketID)
	if !r.Status.Valid() {
		errs.add("status", "must be exactly one of "+enumValues(domain.TicketStatuses)+" (case-sensitive)")
	}
	errs.length("updatedBy", r.UpdatedBy, 3, 100)
	if !actorPattern.MatchString(r.UpdatedBy) {
		errs.add("updatedBy", "may only contain letters, digits and @ . _ -")
	}
	return errs.err()
}

// StatusHistoryResponse is one history entry. The virtual default entry has id 0.
type StatusHistoryResponse struct {
	ID        int64               `json:"id"`
	TicketID  int64               `json:"ticketId"`
	Status    domain.TicketStatus `json:"status"`
	UpdatedBy string              `json:"updatedBy"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// NewStatusHistoryResponse maps a recorded or default status.
func NewStatusHistoryResponse(view domain.StatusView) StatusHistoryResponse {
	resp := StatusHistoryResponse{
		TicketID:  view.TicketID(),
		Status:    view.Status(),
		UpdatedBy: view.UpdatedBy(),
		UpdatedAt: view.UpdatedAt(),
	}
	if recorded, ok := view.(domain.RecordedStatus); ok {
		resp.ID = recorded.Event.ID
	}
	return resp
}

// NewStatusHistoryResponses maps a history, never returning nil.
func NewStatusHistoryResponses(views []domain.StatusView) []StatusHistoryResponse {
	items := make([]StatusHistoryResponse, 0, len(views))
	for _, view := range views {
		items = append(items, NewStatusHistoryResponse(view))
	}
	return items
}

// CurrentStatusResponse describes the current status of a ticket.
type CurrentStatusResponse struct {
	TicketID      int64               `json:"ticketId"`
	CurrentStatus domain.TicketStatus `json:"currentStatus"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	IsDefault     bool                `json:"isDefault"`
}

// NewCurrentStatusResponse maps a status view.
func NewCurrentStatusResponse(view domain.StatusView) CurrentStatusResponse {
	return CurrentStatusResponse{
		TicketID:      view.TicketID(),
		CurrentStatus: view.Status(),
		LastUpdatedBy: view.UpdatedBy(),
		LastUpdatedAt: view.UpdatedAt(),
		IsDefault:     domain.IsDefault(view),
	}
}

// NewCurrentStatusResponses maps a list, never returning nil.
func NewCurrentStatusResponses(views []domain.StatusView) []CurrentStatusResponse {
	items := make([]CurrentStatusResponse, 0, len(views))
	for _, view := range views {
		items = append(items, NewCurrentStatusResponse(view))
	}
	return items
}

// StatusSummaryResponse reports one day of status activity.
type StatusSummaryResponse struct {
	Date         string           `json:"date"`
	StatusCounts map[string]int64 `json:"statusCounts"`
	TotalTickets int64            `json:"totalTickets"`
}

// NewStatusSummaryResponse maps a summary.
func NewStatusSummaryResponse(summary domain.StatusSummary) StatusSummaryResponse {
	counts := make(map[string]int64, len(summary.Counts))
	for status, count := range summary.Counts {
		counts[string(status)] = count
	}
	return StatusSummaryResponse{
		Date:         summary.Date.Format(DateLayout),
		StatusCounts: counts,
		TotalTickets: summary.Total,
	}
}
