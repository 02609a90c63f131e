package models

// Obligation is a computed (user, event) notification duty. It lives only for
// the duration of one monitoring cycle and is never persisted.
type Obligation struct {
	UserID         int64
	Event          Event
	MatchedKeyword string
	Channel        Channel
	Address        string
}
