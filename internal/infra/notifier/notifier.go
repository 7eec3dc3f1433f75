// Package notifier delivers moderation alerts to chat webhooks (Slack and
// Discord). Implementations rate limit and retry internally so callers only
// see the final outcome.
package notifier

import (
	"context"
	"time"
)

// Message is a channel-neutral alert.
type Message struct {
	// Title is the headline, rendered bold or as the embed title.
	Title string
	// Body is short Markdown-ish text.
	Body string
	// URL links the headline when set.
	URL string
	// Footer is small print such as the content kind and author.
	Footer string
	// Timestamp defaults to the send time when zero.
	Timestamp time.Time
}

// Notifier sends a Message to one destination.
type Notifier interface {
	// Notify returns a non-nil error only after all retry attempts failed.
	Notify(ctx context.Context, msg Message) error
}
