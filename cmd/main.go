package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/ableclub/monitor/internal/admin"
	"github.com/ableclub/monitor/internal/clients/ableclub"
	"github.com/ableclub/monitor/internal/config"
	"github.com/ableclub/monitor/internal/domain/models"
	"github.com/ableclub/monitor/internal/logger"
	"github.com/ableclub/monitor/internal/metrics"
	"github.com/ableclub/monitor/internal/notifiers"
	"github.com/ableclub/monitor/internal/repositories"
	"github.com/ableclub/monitor/internal/scheduler"
	"github.com/ableclub/monitor/internal/services"
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

const monitorJobName = "ableclub_events_monitor"

func buildMonitor(cfg *config.Config, dbContext *repositories.DbContext,
	telegram *notifiers.TelegramSender, bus EventBus.Bus) *services.EventsMonitor {

	scraperClient := ableclub.NewClient()
	scraperClient.SetBaseURL(cfg.Scraper.BaseURL)
	if cfg.Scraper.MaxRequestsPerSecond > 0 {
		scraperClient.SetRateLimit(cfg.Scraper.MaxRequestsPerSecond)
	}

	dispatcher := services.NewDispatcher()
	dispatcher.RegisterSender(models.ChannelEmail, notifiers.NewEmailSender(cfg.Notifier.SMTP))
	dispatcher.RegisterSender(models.ChannelTelegram, telegram)

	eventsRepo := repositories.NewEventsRepository(dbContext.DB)
	subscriptionsRepo := repositories.NewSubscriptionsRepository(dbContext.DB)

	return services.NewEventsMonitor(scraperClient, eventsRepo, subscriptionsRepo, dispatcher, bus)
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	bus := EventBus.New()

	telegram, err := notifiers.NewTelegramSender(cfg.Notifier.TelegramToken)
	if err != nil {
		log.Fatalf("can't create telegram sender: %v", err)
	}

	_, err = services.NewFailureAlerter(bus, telegram, cfg.Notifier.AdminChatID)
	if err != nil {
		log.Fatalf("can't create failure alerter: %v", err)
	}

	executionsRepo := repositories.NewExecutionsRepository(dbContext.DB)
	retention := time.Duration(cfg.Jobs.HistoryRetentionDays) * 24 * time.Hour
	manager := scheduler.NewManager(executionsRepo, bus, retention)
	jobScheduler := scheduler.New(manager)

	monitor := buildMonitor(cfg, dbContext, telegram, bus)

	err = jobScheduler.Register(scheduler.Definition{
		Name:           monitorJobName,
		Interval:       cfg.Jobs.Interval,
		MaxRetries:     cfg.Jobs.MaxRetries,
		Backoff:        cfg.Jobs.BackoffSchedule,
		PauseThreshold: cfg.Jobs.PauseThreshold,
		PauseDuration:  cfg.Jobs.PauseDuration,
	}, monitor.RunCycle)
	if err != nil {
		log.Fatalf("can't register monitor job: %v", err)
	}

	admin.Register(jobScheduler, executionsRepo)
	metrics.StartMetricsServer(8080)

	jobScheduler.Start(ctx)

	<-ctx.Done()

	log.Info("Shutting down services...")
	<-jobScheduler.Stop().Done()
	log.Info("Services stopped.")
}
