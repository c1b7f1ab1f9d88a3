// Package notifier sends transactional notifications (order confirmations,
// contact form alerts) to the store owner and customers. Senders are invoked
// fire-and-forget from the service layer.
package notifier

import "context"

// Notification is a channel-agnostic message to deliver.
type Notification struct {
	Recipient string
	Subject   string
	Body      string
}

// Sender delivers notifications through a specific channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, n *Notification) error
}
