package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staff-tracker/internal/api/http"
	"github.com/spec-kit/staff-tracker/internal/api/http/handlers"
	"github.com/spec-kit/staff-tracker/internal/api/ws"
	"github.com/spec-kit/staff-tracker/internal/clock"
	"github.com/spec-kit/staff-tracker/internal/config"
	"github.com/spec-kit/staff-tracker/internal/directory"
	"github.com/spec-kit/staff-tracker/internal/events"
	"github.com/spec-kit/staff-tracker/internal/observability"
	"github.com/spec-kit/staff-tracker/internal/persistence"
	"github.com/spec-kit/staff-tracker/internal/repository"
	"github.com/spec-kit/staff-tracker/internal/roster"
	"github.com/spec-kit/staff-tracker/internal/service"
	"github.com/spec-kit/staff-tracker/internal/view"
	"github.com/spec-kit/staff-tracker/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	loc, err := cfg.Display.Location()
	if err != nil {
		logger.Fatal("invalid display timezone", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	clk := clock.System{}
	store := roster.NewStore()
	dispatcher := events.NewInMemoryDispatcher(logger)

	rosterService := service.NewRosterService(cfg.Directory, service.RosterDependencies{
		Store:      store,
		People:     directory.NewClient(cfg.Directory, cfg.App.Name+"/"+cfg.App.Version),
		Dispatcher: dispatcher,
		Clock:      clk,
		Logger:     logger,
		Metrics:    metrics,
	})
	controller := service.NewController(service.ControllerDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Clock:      clk,
		Logger:     logger,
		Metrics:    metrics,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification, metrics, clk)

	var journalRepo repository.AttendanceRepository
	if pg.Enabled() {
		journalRepo = repository.NewAttendanceRepository(pg.PoolHandle())
	}
	journal := service.NewJournalService(dispatcher, journalRepo, logger)

	var alertSink service.MessagePublisher
	if redis != nil {
		alertSink = redis
	}
	alerts := service.NewAlertPublisher(dispatcher, alertSink, cfg.Redis.LateChannel, logger)

	renderer, err := view.NewRenderer(loc)
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}
	hub := ws.NewHub(logger)
	projector := ws.NewProjector(dispatcher, hub, renderer, store, controller, logger)

	// The controller clears the selection on reload before the projector
	// renders; consoles are updated before the journal and alert sinks run.
	worker.StartSubscribers(controller, projector, notificationService, journal, alerts)

	go hub.Run(ctx)
	go worker.NewLatenessMonitor(store, notificationService, clk, cfg.Monitor.Interval(), logger).Run(ctx)
	go func() {
		if _, err := rosterService.Load(ctx); err != nil {
			logger.Warn("initial roster load failed; table stays empty until reload", zap.Error(err))
		}
	}()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, rosterService, pg, redis, metrics),
		Console:       handlers.NewConsoleHandler("Staff Tracker", renderer, rosterService, controller, notificationService),
		Staff:         handlers.NewStaffHandler(rosterService, controller),
		Notifications: handlers.NewNotificationsHandler(notificationService),
		Hub:           hub,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
