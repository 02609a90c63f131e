package services

import (
	"fmt"
	"time"

	"github.com/ableclub/monitor/internal/events"
	"github.com/ableclub/monitor/internal/logger"
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
)

type adminSender interface {
	SendToChat(chatID int64, message string) error
}

// FailureAlerter tells the operator's Telegram chat about cycles that
// exhausted their retries. Alerting is best effort; a failed alert is only
// logged.
type FailureAlerter struct {
	sender adminSender
	chatID int64
}

func NewFailureAlerter(bus EventBus.Bus, sender adminSender, chatID int64) (*FailureAlerter, error) {
	a := &FailureAlerter{sender: sender, chatID: chatID}
	if err := bus.Subscribe(events.CycleFailedTopic, a.onCycleFailed); err != nil {
		return nil, err
	}
	if err := bus.Subscribe(events.JobPausedTopic, a.onJobPaused); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *FailureAlerter) onCycleFailed(event events.CycleFailed) {

	if a.chatID == 0 {
		return
	}

	message := fmt.Sprintf("⚠️ Job %q failed after %d attempts:\n%s",
		event.JobName, event.Attempts, event.Error)

	if err := a.sender.SendToChat(a.chatID, message); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
			Errorf("failed to send failure alert: %v", err)
	}
}

func (a *FailureAlerter) onJobPaused(event events.JobPaused) {

	if a.chatID == 0 {
		return
	}

	message := fmt.Sprintf("⏸ Job %q paused after %d consecutive failed cycles, resumes at %s",
		event.JobName, event.Failures, event.Until.Format(time.RFC3339))

	if err := a.sender.SendToChat(a.chatID, message); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
			Errorf("failed to send pause alert: %v", err)
	}
}
