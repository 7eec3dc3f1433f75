package notifier

import "context"

// NoOpNotifier discards every message. It stands in for disabled channels.
type NoOpNotifier struct{}

func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// Notify does nothing.
func (n *NoOpNotifier) Notify(context.Context, Message) error {
	return nil
}
