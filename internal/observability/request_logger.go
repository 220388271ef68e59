package observability

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// RequestLogger logs every request and records request metrics. Errors returned by
// downstream handlers are passed through untouched; the status logged is the one the
// error middleware will render.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			} else {
				status = apperrors.ToDomainError(err).HTTPStatus
			}
		}

		route, method := RouteLabels(c, err)
		duration := time.Since(start)
		metrics.RecordRequest(route, method, status, duration)

		fields := []zap.Field{
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("method", method),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", duration),
		}
		if status >= fiber.StatusInternalServerError {
			logger.Warn("request completed", fields...)
		} else {
			logger.Info("request completed", fields...)
		}
		return err
	}
}

// UnmatchedRoute labels requests that no route handled.
const UnmatchedRoute = "unmatched"

// RouteLabels returns the route and method labels for c. The method is copied out
// of the request buffer, which fasthttp reuses once the request completes.
func RouteLabels(c *fiber.Ctx, err error) (route, method string) {
	method = utils.CopyString(c.Method())

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) &&
		(fiberErr.Code == fiber.StatusNotFound || fiberErr.Code == fiber.StatusMethodNotAllowed) {
		return UnmatchedRoute, method
	}
	return c.Route().Path, method
}
