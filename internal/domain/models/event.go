package models

import "time"

// Event is a single item scraped from the AbleClub site. ExternalID is the
// site's own identifier and is stable across scrapes, so it carries the
// uniqueness constraint.
type Event struct {
	ID           int    `gorm:"primaryKey"`
	ExternalID   string `gorm:"uniqueIndex"`
	Title        string
	Body         string
	DiscoveredAt time.Time
	CreatedAt    time.Time
}
