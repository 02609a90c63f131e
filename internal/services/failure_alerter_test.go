package services

import (
	"testing"
	"time"

	"github.com/ableclub/monitor/internal/events"
	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAdminSender struct {
	messages []string
	chatIDs  []int64
}

func (s *recordingAdminSender) SendToChat(chatID int64, message string) error {
	s.chatIDs = append(s.chatIDs, chatID)
	s.messages = append(s.messages, message)
	return nil
}

func Test_FailureAlerter_SendsCycleFailureToAdminChat(t *testing.T) {

	bus := EventBus.New()
	sender := &recordingAdminSender{}

	_, err := NewFailureAlerter(bus, sender, 777)
	require.NoError(t, err)

	bus.Publish(events.CycleFailedTopic, events.CycleFailed{
		JobName:  "monitor",
		Attempts: 3,
		Error:    "site unreachable",
	})

	require.Len(t, sender.messages, 1)
	assert.Equal(t, int64(777), sender.chatIDs[0])
	assert.Contains(t, sender.messages[0], "monitor")
	assert.Contains(t, sender.messages[0], "site unreachable")
}

func Test_FailureAlerter_SendsPauseAlert(t *testing.T) {

	bus := EventBus.New()
	sender := &recordingAdminSender{}

	_, err := NewFailureAlerter(bus, sender, 777)
	require.NoError(t, err)

	bus.Publish(events.JobPausedTopic, events.JobPaused{
		JobName:  "monitor",
		Failures: 3,
		Until:    time.Now().Add(6 * time.Hour),
	})

	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "paused after 3 consecutive failed cycles")
}

func Test_FailureAlerter_ZeroChatIDStaysSilent(t *testing.T) {

	bus := EventBus.New()
	sender := &recordingAdminSender{}

	_, err := NewFailureAlerter(bus, sender, 0)
	require.NoError(t, err)

	bus.Publish(events.CycleFailedTopic, events.CycleFailed{JobName: "monitor"})
	bus.Publish(events.JobPausedTopic, events.JobPaused{JobName: "monitor"})

	assert.Empty(t, sender.messages)
}
