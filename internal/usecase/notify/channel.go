// Package notify tells administrators about content waiting for review.
// Messages fan out asynchronously to every enabled channel (Slack, Discord)
// with a bounded worker pool and a circuit breaker per channel, so a slow or
// broken webhook never delays an HTTP request.
package notify

import (
	"context"

	"brazucas-cork/internal/infra/notifier"
)

// Channel is one notification destination.
//
// Implementations must be safe for concurrent use and must respect context
// cancellation. Retries and rate limiting happen inside the channel.
type Channel interface {
	// Name is a lowercase identifier used in logs and metric labels.
	Name() string
	// IsEnabled reports whether the channel is configured.
	IsEnabled() bool
	// Send delivers one message, returning ErrChannelDisabled when called
	// on a disabled channel.
	Send(ctx context.Context, msg notifier.Message) error
}

// WebhookChannel adapts an infrastructure notifier to Channel.
type WebhookChannel struct {
	name     string
	notifier notifier.Notifier
	enabled  bool
}

// NewSlackChannel builds the Slack channel. A disabled config yields a
// channel backed by a no-op notifier.
func NewSlackChannel(config notifier.SlackConfig) *WebhookChannel {
	var n notifier.Notifier = notifier.NewNoOpNotifier()
	if config.Enabled {
		n = notifier.NewSlackNotifier(config)
	}
	return &WebhookChannel{name: "slack", notifier: n, enabled: config.Enabled}
}

// NewDiscordChannel builds the Discord channel.
func NewDiscordChannel(config notifier.DiscordConfig) *WebhookChannel {
	var n notifier.Notifier = notifier.NewNoOpNotifier()
	if config.Enabled {
		n = notifier.NewDiscordNotifier(config)
	}
	return &WebhookChannel{name: "discord", notifier: n, enabled: config.Enabled}
}

func (c *WebhookChannel) Name() string { return c.name }

func (c *WebhookChannel) IsEnabled() bool { return c.enabled }

func (c *WebhookChannel) Send(ctx context.Context, msg notifier.Message) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if msg.Title == "" {
		return ErrInvalidMessage
	}
	return c.notifier.Notify(ctx, msg)
}
