// Package notify delivers formatted text messages to the chat endpoint.
package notify

import "context"

// Notifier delivers a formatted text payload. Messages use a lightweight
// text-markup convention (Telegram Markdown). Delivery failure is reported
// to the caller, which logs it and carries on; a failed dispatch never
// aborts a cycle.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// NoOpNotifier is a notifier that does nothing (for tests or when no
// credentials are configured).
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Send does nothing.
func (n *NoOpNotifier) Send(ctx context.Context, text string) error {
	return nil
}
