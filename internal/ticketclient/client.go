// Package ticketclient resolves tickets from the ticket service for the status
// service.
package ticketclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/peer"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// Dependency is the name reported in DEPENDENCY_UNAVAILABLE errors and metrics.
const Dependency = config.ServiceTickets

// Client calls the ticket service over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
	metrics *observability.Metrics
}

// New builds a client for the configured ticket service.
func New(cfg config.UpstreamConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout(),
		logger:  logger,
		metrics: metrics,
	}
}

// GetTicket fetches one ticket. A 404 naming the ticket becomes NOT_FOUND, a 400
// becomes VALIDATION_FAILED, and every other failure becomes DEPENDENCY_UNAVAILABLE.
// A 404 without the ticket id, such as a route miss behind a wrong base URL, is
// an unavailable dependency.
func (c *Client) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	start := time.Now()
	resp, err := peer.Do(ctx, fiber.Get(fmt.Sprintf("%s/tickets/%d", c.baseURL, id)), c.timeout)
	if err != nil {
		return nil, c.unavailable("get_ticket", start, err)
	}

	switch {
	case resp.Status == fiber.StatusOK:
		var body dto.TicketResponse
		if err := json.Unmarshal(resp.Body, &body); err != nil {
			return nil, c.unavailable("get_ticket", start, fmt.Errorf("decode ticket: %w", err))
		}
		c.metrics.ObserveDependencyCall(Dependency, "get_ticket", observability.OutcomeOK, start)
		ticket := body.ToDomain()
		return &ticket, nil
	case resp.Status == fiber.StatusNotFound:
		if _, details := peer.ErrorMessage(resp.Body, ""); !namesTicket(details, id) {
			return nil, c.unavailable("get_ticket", start, fmt.Errorf("unexpected 404 for ticket %d", id))
		}
		c.metrics.ObserveDependencyCall(Dependency, "get_ticket", observability.OutcomeNotFound, start)
		return nil, apperrors.NewTicketNotFound(id)
	case resp.Status == fiber.StatusBadRequest:
		c.metrics.ObserveDependencyCall(Dependency, "get_ticket", observability.OutcomeRejected, start)
		message, details := peer.ErrorMessage(resp.Body, fmt.Sprintf("ticket id %d rejected by %s", id, Dependency))
		return nil, apperrors.NewValidationError(message, details)
	default:
		return nil, c.unavailable("get_ticket", start, fmt.Errorf("unexpected status %d", resp.Status))
	}
}

// ListTickets fetches every ticket. Any failure is DEPENDENCY_UNAVAILABLE.
func (c *Client) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	start := time.Now()
	resp, err := peer.Do(ctx, fiber.Get(c.baseURL+"/tickets/all"), c.timeout)
	if err != nil {
		return nil, c.unavailable("list_tickets", start, err)
	}
	if resp.Status != fiber.StatusOK {
		return nil, c.unavailable("list_tickets", start, fmt.Errorf("unexpected status %d", resp.Status))
	}

	var body []dto.TicketResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, c.unavailable("list_tickets", start, fmt.Errorf("decode tickets: %w", err))
	}
	c.metrics.ObserveDependencyCall(Dependency, "list_tickets", observability.OutcomeOK, start)

	tickets := make([]domain.Ticket, 0, len(body))
	for _, item := range body {
		tickets = append(tickets, item.ToDomain())
	}
	return tickets, nil
}

// Ping checks that the ticket service answers its liveness probe.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := peer.Do(ctx, fiber.Get(c.baseURL+"/health/live"), c.timeout)
	if err != nil {
		return err
	}
	if resp.Status != fiber.StatusOK {
		return fmt.Errorf("%s liveness returned %d", Dependency, resp.Status)
	}
	return nil
}

func namesTicket(details map[string]any, id int64) bool {
	raw, ok := details["ticketId"].(float64)
	return ok && int64(raw) == id
}

func (c *Client) unavailable(operation string, start time.Time, err error) error {
	c.metrics.ObserveDependencyCall(Dependency, operation, observability.OutcomeUnavailable, start)
	c.logger.Warn("ticket service call failed",
		zap.String("operation", operation),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	return apperrors.NewDependencyUnavailable(Dependency, err)
}
