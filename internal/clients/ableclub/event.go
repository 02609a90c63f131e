package ableclub

// EventItem is the wire shape of one listed event.
type EventItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
