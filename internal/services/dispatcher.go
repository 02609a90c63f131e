package services

import (
	"context"
	"fmt"

	"github.com/ableclub/monitor/internal/domain/models"
	"github.com/ableclub/monitor/internal/logger"
	"github.com/ableclub/monitor/internal/metrics"
	"github.com/ableclub/monitor/internal/notifiers"
	log "github.com/sirupsen/logrus"
)

const notificationSubject = "New AbleClub events matching your keywords"

// Dispatcher sends one message per obligation over the obligation's channel.
// One failed delivery never stops the rest of the batch.
type Dispatcher struct {
	senders map[models.Channel]notifiers.Sender
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{senders: make(map[models.Channel]notifiers.Sender)}
}

func (d *Dispatcher) RegisterSender(channel models.Channel, sender notifiers.Sender) {
	d.senders[channel] = sender
}

// Dispatch returns how many deliveries succeeded and how many failed.
func (d *Dispatcher) Dispatch(ctx context.Context, obligations []models.Obligation) (delivered int, failed int) {

	for _, obligation := range obligations {

		sender, ok := d.senders[obligation.Channel]
		if !ok {
			log.Errorf("no sender registered for channel %q, dropping notification for user %d",
				obligation.Channel, obligation.UserID)
			failed++
			continue
		}

		message := renderMessage(obligation)
		if err := sender.Send(ctx, obligation.Address, notificationSubject, message); err != nil {
			log.WithField(logger.ErrorTypeField, errorTypeFor(obligation.Channel)).
				Errorf("failed to notify user %d about event %s: %v",
					obligation.UserID, obligation.Event.ExternalID, err)
			metrics.NotificationsFailedCounter.WithLabelValues(string(obligation.Channel)).Inc()
			failed++
			continue
		}

		metrics.NotificationsSentCounter.WithLabelValues(string(obligation.Channel)).Inc()
		delivered++
	}

	return delivered, failed
}

func renderMessage(obligation models.Obligation) string {
	return fmt.Sprintf("A new AbleClub event matches your keyword %q:\n\n%s\n\n"+
		"Sign in to the AbleClub site for details.",
		obligation.MatchedKeyword, obligation.Event.Title)
}

func errorTypeFor(channel models.Channel) string {
	if channel == models.ChannelTelegram {
		return logger.ErrorTypeTgApi
	}
	return logger.ErrorTypeEmail
}
