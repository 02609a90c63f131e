package notifiers

import (
	"context"
	"strconv"

	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type TelegramSender struct {
	api *botApi.BotAPI
}

func NewTelegramSender(token string) (*TelegramSender, error) {
	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)
	return &TelegramSender{api: api}, nil
}

// Send treats the address as a chat ID, the form it is stored in by the
// subscription layer.
func (s *TelegramSender) Send(ctx context.Context, address string, subject string, message string) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	chatID, err := strconv.ParseInt(address, 10, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid telegram chat id %q", address)
	}

	text := message
	if subject != "" {
		text = subject + "\n\n" + message
	}
	return s.SendToChat(chatID, text)
}

func (s *TelegramSender) SendToChat(chatID int64, message string) error {
	_, err := s.api.Send(botApi.NewMessage(chatID, message))
	return err
}
