package services

import (
	"strings"

	"github.com/ableclub/monitor/internal/domain/models"
)

// MatchKeyword returns the first of the keywords that occurs as a
// case-insensitive substring of text. An empty keyword list matches nothing.
func MatchKeyword(text string, keywords []string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return keyword, true
		}
	}
	return "", false
}

// BuildObligations pairs newly discovered events with the subscriptions whose
// keywords match the event's title or body. A subscription yields at most one
// obligation per event, on its first matching keyword. Order is
// event-discovery order, then subscription order.
func BuildObligations(newEvents []models.Event, subscriptions []models.Subscription) []models.Obligation {

	var obligations []models.Obligation

	for _, event := range newEvents {
		text := event.Title + "\n" + event.Body

		for _, subscription := range subscriptions {
			keyword, matched := MatchKeyword(text, subscription.KeywordsAsArray())
			if !matched {
				continue
			}
			obligations = append(obligations, models.Obligation{
				UserID:         subscription.UserID,
				Event:          event,
				MatchedKeyword: keyword,
				Channel:        subscription.Channel,
				Address:        subscription.Address,
			})
		}
	}

	return obligations
}
