package services

import (
	"context"
	"testing"

	"github.com/ableclub/monitor/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type scriptedSender struct {
	failFor map[string]bool
	sent    []string
}

func (s *scriptedSender) Send(ctx context.Context, address string, subject string, message string) error {
	if s.failFor[address] {
		return errors.New("delivery refused")
	}
	s.sent = append(s.sent, address)
	return nil
}

func Test_Dispatch_OneFailureDoesNotStopTheBatch(t *testing.T) {

	sender := &scriptedSender{failFor: map[string]bool{"b@example.com": true}}
	dispatcher := NewDispatcher()
	dispatcher.RegisterSender(models.ChannelEmail, sender)

	event := models.Event{ExternalID: "ev-1", Title: "python talk"}
	obligations := []models.Obligation{
		{UserID: 1, Event: event, MatchedKeyword: "python", Channel: models.ChannelEmail, Address: "a@example.com"},
		{UserID: 2, Event: event, MatchedKeyword: "python", Channel: models.ChannelEmail, Address: "b@example.com"},
		{UserID: 3, Event: event, MatchedKeyword: "python", Channel: models.ChannelEmail, Address: "c@example.com"},
	}

	delivered, failed := dispatcher.Dispatch(context.Background(), obligations)

	assert.Equal(t, 2, delivered)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []string{"a@example.com", "c@example.com"}, sender.sent)
}

func Test_Dispatch_MissingChannelSenderCountsAsFailure(t *testing.T) {

	dispatcher := NewDispatcher()

	obligations := []models.Obligation{
		{UserID: 1, Channel: models.ChannelTelegram, Address: "100"},
	}

	delivered, failed := dispatcher.Dispatch(context.Background(), obligations)

	assert.Equal(t, 0, delivered)
	assert.Equal(t, 1, failed)
}
