package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// StatusEventRepository stores the append-only status history.
//
// Reads return events latest first: updated_at descending, ties broken by id
// descending so the later insert wins.
type StatusEventRepository interface {
	Append(ctx context.Context, event *domain.StatusEvent) error
	Latest(ctx context.Context, ticketID int64) (*domain.StatusEvent, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.StatusEvent, error)
	// CountByStatus tallies events with from <= updated_at < to.
	CountByStatus(ctx context.Context, from, to time.Time) (map[domain.TicketStatus]int64, error)
}

type statusEventRepository struct {
	pool *pgxpool.Pool
}

// NewStatusEventRepository builds repository.
func NewStatusEventRepository(pool *pgxpool.Pool) StatusEventRepository {
	return &statusEventRepository{pool: pool}
}

func (r *statusEventRepository) Append(ctx context.Context, event *domain.StatusEvent) error {
	const query = `
        INSERT INTO ticket_status_history (ticket_id, status, updated_by, updated_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, updated_at`
	return r.pool.QueryRow(ctx, query,
		event.TicketID,
		event.Status,
		event.UpdatedBy,
		event.UpdatedAt,
	).Scan(&event.ID, &event.UpdatedAt)
}

func (r *statusEventRepository) Latest(ctx context.Context, ticketID int64) (*domain.StatusEvent, error) {
	const query = `
        SELECT id, ticket_id, status, updated_by, updated_at
        FROM ticket_status_history WHERE ticket_id=$1
        ORDER BY updated_at DESC, id DESC LIMIT 1`
	var event domain.StatusEvent
	if err := scanStatusEvent(r.pool.QueryRow(ctx, query, ticketID), &event); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *statusEventRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.StatusEvent, error) {
	const query = `
        SELECT id, ticket_id, status, updated_by, updated_at
        FROM ticket_status_history WHERE ticket_id=$1
        ORDER BY updated_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.StatusEvent{}
	for rows.Next() {
		var event domain.StatusEvent
		if err := scanStatusEvent(rows, &event); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (r *statusEventRepository) CountByStatus(ctx context.Context, from, to time.Time) (map[domain.TicketStatus]int64, error) {
	const query = `
        SELECT status, COUNT(*)
        FROM ticket_status_history
        WHERE updated_at >= $1 AND updated_at < $2
        GROUP BY status`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[domain.TicketStatus]int64{}
	for rows.Next() {
		var (
			status domain.TicketStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func scanStatusEvent(row pgx.Row, event *domain.StatusEvent) error {
	return row.Scan(
		&event.ID,
		&event.TicketID,
		&event.Status,
		&event.UpdatedBy,
		&event.UpdatedAt,
	)
}
