package ticketclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
)

const cacheKeyPrefix = "helpdesk:ticket:"

// Lookup is the subset of Client wrapped by Cache.
type Lookup interface {
	GetTicket(ctx context.Context, id int64) (*domain.Ticket, error)
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
}

// Cache is a read-through Redis cache in front of a Lookup. Tickets never change
// once created, so found tickets are cached for ttl. Misses and failures are not
// cached. Redis errors fall through to the wrapped lookup.
type Cache struct {
	next    Lookup
	redis   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewCache wraps next. A nil client or a non-positive ttl disables caching.
func NewCache(next Lookup, client *redis.Client, ttl time.Duration, logger *zap.Logger, metrics *observability.Metrics) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{next: next, redis: client, ttl: ttl, logger: logger, metrics: metrics}
}

func (c *Cache) enabled() bool {
	return c.redis != nil && c.ttl > 0
}

// GetTicket serves from Redis when possible.
func (c *Cache) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	if !c.enabled() {
		return c.next.GetTicket(ctx, id)
	}

	start := time.Now()
	if ticket, ok := c.load(ctx, id); ok {
		c.metrics.ObserveDependencyCall(Dependency, "get_ticket", observability.OutcomeCacheHit, start)
		return ticket, nil
	}

	ticket, err := c.next.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, ticket)
	return ticket, nil
}

// ListTickets is never cached since new tickets appear at any time.
func (c *Cache) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return c.next.ListTickets(ctx)
}

func (c *Cache) load(ctx context.Context, id int64) (*domain.Ticket, bool) {
	raw, err := c.redis.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("ticket cache read failed", zap.Int64("ticket_id", id), zap.Error(err))
		}
		return nil, false
	}
	var body dto.TicketResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		c.logger.Warn("discarding corrupt ticket cache entry", zap.Int64("ticket_id", id), zap.Error(err))
		return nil, false
	}
	ticket := body.ToDomain()
	return &ticket, true
}

func (c *Cache) store(ctx context.Context, ticket *domain.Ticket) {
	raw, err := json.Marshal(dto.NewTicketResponse(ticket))
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKey(ticket.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("ticket cache write failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("%s%d", cacheKeyPrefix, id)
}
