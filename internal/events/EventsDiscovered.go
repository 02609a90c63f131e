package events

import "github.com/ableclub/monitor/internal/domain/models"

var EventsDiscoveredTopic = "EventsDiscoveredEvent"

type EventsDiscovered struct {
	Events []models.Event
}
