package services

import (
	"context"
	"time"

	"github.com/ableclub/monitor/internal/clients/ableclub"
	"github.com/ableclub/monitor/internal/domain/models"
	"github.com/ableclub/monitor/internal/events"
	"github.com/ableclub/monitor/internal/logger"
	"github.com/ableclub/monitor/internal/metrics"
	"github.com/ableclub/monitor/internal/scheduler"
	"github.com/asaskevich/EventBus"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type scraperClient interface {
	FetchEvents(ctx context.Context) ([]ableclub.EventItem, error)
}

type eventRepository interface {
	Exists(ctx context.Context, externalID string) (bool, error)
	Add(ctx context.Context, event models.Event) error
}

type subscriptionRepository interface {
	ListActive(ctx context.Context) ([]models.Subscription, error)
}

type obligationDispatcher interface {
	Dispatch(ctx context.Context, obligations []models.Obligation) (delivered int, failed int)
}

// EventsMonitor is the body of the recurring monitoring job: scrape the
// current snapshot, persist events seen for the first time, match them
// against active subscriptions and dispatch the resulting notifications.
type EventsMonitor struct {
	scraper       scraperClient
	events        eventRepository
	subscriptions subscriptionRepository
	dispatcher    obligationDispatcher
	bus           EventBus.Bus
	knownIDs      *gocache.Cache
}

func NewEventsMonitor(scraper scraperClient, eventRepo eventRepository,
	subscriptionRepo subscriptionRepository, dispatcher obligationDispatcher, bus EventBus.Bus) *EventsMonitor {

	return &EventsMonitor{
		scraper:       scraper,
		events:        eventRepo,
		subscriptions: subscriptionRepo,
		dispatcher:    dispatcher,
		bus:           bus,
		knownIDs:      gocache.New(24*time.Hour, time.Hour),
	}
}

// RunCycle is a scheduler.RunFunc. Any returned error makes the attempt
// retryable; a partially failed dispatch also fails the cycle so delivery
// problems stay visible in the history.
func (m *EventsMonitor) RunCycle(ctx context.Context) (scheduler.CycleStats, error) {

	var stats scheduler.CycleStats

	items, err := m.scraper.FetchEvents(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeScraper).
			Errorf("failed to fetch events: %v", err)
		return stats, errors.Wrap(err, "scrape failed")
	}
	stats.ScrapedCount = len(items)

	newEvents, err := m.persistNewEvents(ctx, items)
	if err != nil {
		return stats, err
	}
	stats.NewCount = len(newEvents)

	log.Infof("scraped %d events, %d newly discovered", stats.ScrapedCount, stats.NewCount)
	if len(newEvents) == 0 {
		return stats, nil
	}

	metrics.DiscoveredEventsCounter.Add(float64(len(newEvents)))
	m.bus.Publish(events.EventsDiscoveredTopic, events.EventsDiscovered{Events: newEvents})

	subscriptions, err := m.subscriptions.ListActive(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to list subscriptions: %v", err)
		return stats, errors.Wrap(err, "failed to list subscriptions")
	}

	obligations := BuildObligations(newEvents, subscriptions)
	if len(obligations) == 0 {
		return stats, nil
	}

	delivered, failed := m.dispatcher.Dispatch(ctx, obligations)
	log.Infof("dispatched %d notifications, %d failed", delivered, failed)

	if failed > 0 {
		return stats, errors.Errorf("%d of %d notifications failed to deliver", failed, delivered+failed)
	}
	return stats, nil
}

// persistNewEvents inserts events with an unseen external ID and returns
// them in scrape order. Known IDs are remembered in memory so a steady-state
// cycle rarely touches the database.
func (m *EventsMonitor) persistNewEvents(ctx context.Context, items []ableclub.EventItem) ([]models.Event, error) {

	var newEvents []models.Event

	for _, item := range items {

		if _, found := m.knownIDs.Get(item.ID); found {
			continue
		}

		exists, err := m.events.Exists(ctx, item.ID)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to look up event %s: %v", item.ID, err)
			return nil, errors.Wrap(err, "event lookup failed")
		}
		if exists {
			m.rememberID(item.ID)
			continue
		}

		event := models.Event{
			ExternalID:   item.ID,
			Title:        item.Title,
			Body:         item.Description,
			DiscoveredAt: time.Now(),
		}
		if err := m.events.Add(ctx, event); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to persist event %s: %v", item.ID, err)
			return nil, errors.Wrap(err, "event insert failed")
		}

		m.rememberID(item.ID)
		newEvents = append(newEvents, event)
	}

	return newEvents, nil
}

func (m *EventsMonitor) rememberID(externalID string) {
	if err := m.knownIDs.Add(externalID, struct{}{}, gocache.DefaultExpiration); err != nil {
		log.Debugf("failed to cache event id %s: %v", externalID, err)
	}
}
