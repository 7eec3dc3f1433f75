package notifier

import (
	"context"
	"net/http"
	"time"

	"brazucas-cork/internal/resilience/retry"
)

// DiscordConfig contains configuration for Discord webhook notifications.
type DiscordConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
}

// DiscordNotifier posts embeds to a Discord webhook.
// Discord allows 30 requests per minute per webhook.
type DiscordNotifier struct {
	hook webhook
}

func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{hook: webhook{
		service:     "discord",
		url:         config.WebhookURL,
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: NewRateLimiter(0.5, 3),
		retry:       retry.Webhook(),
	}}
}

// DiscordWebhookPayload represents the JSON payload sent to Discord webhook.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed represents a Discord embed message.
type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url,omitempty"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp"`
}

// DiscordEmbedFooter represents the footer of a Discord embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	maxEmbedTitleLength       = 256
	maxEmbedDescriptionLength = 4096
	// embedColor is the green of the Brazilian flag.
	embedColor = 0x009C3B
)

func buildDiscordPayload(msg Message) DiscordWebhookPayload {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return DiscordWebhookPayload{Embeds: []DiscordEmbed{{
		Title:       truncate(msg.Title, maxEmbedTitleLength, "..."),
		Description: truncate(msg.Body, maxEmbedDescriptionLength, "..."),
		URL:         msg.URL,
		Color:       embedColor,
		Footer:      DiscordEmbedFooter{Text: msg.Footer},
		Timestamp:   ts.UTC().Format(time.RFC3339),
	}}}
}

// Notify implements Notifier.
func (d *DiscordNotifier) Notify(ctx context.Context, msg Message) error {
	return d.hook.deliver(ctx, buildDiscordPayload(msg))
}
