package models

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
)

// Subscription is a user's keyword watch list plus the channel the user wants
// to be notified on. Written by the API layer, read-only here.
type Subscription struct {
	ID        int `gorm:"primaryKey"`
	UserID    int64
	Keywords  string
	Channel   Channel
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewSubscription(userID int64, keywords []string, channel Channel, address string) *Subscription {
	return &Subscription{
		UserID:   userID,
		Keywords: strings.Join(keywords, ","),
		Channel:  channel,
		Address:  address,
		IsActive: true,
	}
}

func (s *Subscription) KeywordsAsArray() []string {
	if s.Keywords == "" {
		return []string{}
	}

	return lo.FilterMap(strings.Split(s.Keywords, ","), func(item string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(item)
		return trimmed, trimmed != ""
	})
}
