package notifiers

import "context"

// Sender delivers one rendered message to one address. Implementations do
// their own timeouts; the monitoring core treats the call as blocking.
type Sender interface {
	Send(ctx context.Context, address string, subject string, message string) error
}
