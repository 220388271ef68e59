package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// DrainNotificationWorker waits for in-flight notifications until ctx is done.
// It reports whether every notification finished.
func DrainNotificationWorker(ctx context.Context, notificationService *service.NotificationService, logger *zap.Logger) bool {
	if notificationService == nil {
		return true
	}
	done := make(chan struct{})
	go func() {
		notificationService.Wait()
		close(done)
	}()

	start := time.Now()
	select {
	case <-done:
		logger.Info("notifications drained", zap.Duration("elapsed", time.Since(start)))
		return true
	case <-ctx.Done():
		logger.Warn("notification drain interrupted", zap.Error(ctx.Err()))
		return false
	}
}
