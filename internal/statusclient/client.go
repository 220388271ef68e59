// Package statusclient lets the ticket service record the initial status of new
// tickets on the status service.
package statusclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/peer"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// Dependency is the name reported in errors and metrics.
const Dependency = config.ServiceStatus

// Client calls the status service over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	metrics *observability.Metrics
}

// New builds a client for the configured status service.
func New(cfg config.UpstreamConfig, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout(),
		metrics: metrics,
	}
}

// NotifyCreated posts the OPEN status of a new ticket, attributed to the system actor.
func (c *Client) NotifyCreated(ctx context.Context, ticketID int64) error {
	return c.UpdateStatus(ctx, dto.StatusUpdateRequest{
		TicketID:  ticketID,
		Status:    domain.TicketStatusOpen,
		UpdatedBy: domain.SystemActor,
	})
}

// UpdateStatus posts a status update. Any 2xx answer is success.
func (c *Client) UpdateStatus(ctx context.Context, req dto.StatusUpdateRequest) error {
	start := time.Now()
	resp, err := peer.Do(ctx, fiber.Post(c.baseURL+"/status/update").JSON(req), c.timeout)
	if err != nil {
		c.metrics.ObserveDependencyCall(Dependency, "update_status", observability.OutcomeUnavailable, start)
		return apperrors.NewDependencyUnavailable(Dependency, err)
	}

	switch {
	case resp.Status >= 200 && resp.Status < 300:
		c.metrics.ObserveDependencyCall(Dependency, "update_status", observability.OutcomeOK, start)
		return nil
	case resp.Status == fiber.StatusNotFound:
		c.metrics.ObserveDependencyCall(Dependency, "update_status", observability.OutcomeNotFound, start)
		return apperrors.NewTicketNotFound(req.TicketID)
	case resp.Status == fiber.StatusBadRequest:
		c.metrics.ObserveDependencyCall(Dependency, "update_status", observability.OutcomeRejected, start)
		message, details := peer.ErrorMessage(resp.Body, "status update rejected")
		return apperrors.NewValidationError(message, details)
	default:
		c.metrics.ObserveDependencyCall(Dependency, "update_status", observability.OutcomeUnavailable, start)
		return apperrors.NewDependencyUnavailable(Dependency, fmt.Errorf("unexpected status %d", resp.Status))
	}
}
