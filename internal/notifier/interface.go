package notifier

import "context"

// Result is the provider's acknowledgement of a message.
type Result struct {
	DeliveryID string
	Status     string
}

// Notifier sends a short text message to a recipient.
type Notifier interface {
	Send(ctx context.Context, recipient, message string) (Result, error)
}
