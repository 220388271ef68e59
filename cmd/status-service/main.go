package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/ticketclient"
	"github.com/spec-kit/helpdesk/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load(config.ServiceStatus)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App.Name, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var eventRepo repository.StatusEventRepository = repository.NewMemoryStatusEventRepository()
	if pg.Configured() {
		eventRepo = repository.NewStatusEventRepository(pg.PoolHandle())
	}

	location, err := cfg.Status.Location()
	if err != nil {
		logger.Fatal("invalid STATUS_TIMEZONE", zap.String("timezone", cfg.Status.Timezone), zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})
	worker.StartNotificationWorker(notificationService)

	ticketClient := ticketclient.New(cfg.TicketService, logger, metrics)
	ticketLookup := ticketclient.NewCache(ticketClient, redis.Handle(), cfg.Status.CacheTTL(), logger, metrics)

	statusService := service.NewStatusService(service.StatusDependencies{
		EventRepo:   eventRepo,
		Tickets:     ticketLookup,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
		Location:    location,
		Concurrency: cfg.Status.LookupConcurrency,
	})

	app := httptransport.NewApp(cfg.App.Name)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	checks := []handlers.DependencyCheck{
		{Name: "postgres", Ping: pg.Ping},
		{Name: ticketclient.Dependency, Ping: ticketClient.Ping},
	}
	if cfg.Redis.Enabled {
		checks = append(checks, handlers.DependencyCheck{Name: "redis", Ping: redis.Ping})
	}
	httptransport.RegisterStatusRoutes(app, httptransport.StatusRouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks...),
		Status:  handlers.NewStatusHandler(statusService),
		Metrics: metrics,
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("ticket_service", cfg.TicketService.BaseURL),
			zap.String("timezone", location.String()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
