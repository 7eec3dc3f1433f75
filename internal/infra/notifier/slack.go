package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"brazucas-cork/internal/resilience/retry"
)

// SlackConfig contains configuration for Slack webhook notifications.
type SlackConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
}

// SlackNotifier posts Block Kit messages to a Slack Incoming Webhook.
// Slack accepts about one message per second per webhook.
type SlackNotifier struct {
	hook webhook
}

func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	return &SlackNotifier{hook: webhook{
		service:     "slack",
		url:         config.WebhookURL,
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: NewRateLimiter(1.0, 1),
		retry:       retry.Webhook(),
	}}
}

// SlackWebhookPayload represents the JSON payload sent to Slack webhook using Block Kit.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

// SlackBlock represents a Slack Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

// SlackTextObject represents a text object in Slack Block Kit.
type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	maxSectionTextLength  = 3000
	maxFallbackLength     = 150
	slackTruncationSuffix = "..."
)

func buildSlackPayload(msg Message) SlackWebhookPayload {
	title := "*" + msg.Title + "*"
	if msg.URL != "" {
		title = fmt.Sprintf("*<%s|%s>*", msg.URL, msg.Title)
	}
	section := title
	if msg.Body != "" {
		section += "\n\n" + msg.Body
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	footer := ts.Format(time.RFC3339)
	if msg.Footer != "" {
		footer = msg.Footer + " • " + footer
	}

	return SlackWebhookPayload{
		Text: truncate(msg.Title, maxFallbackLength, slackTruncationSuffix),
		Blocks: []SlackBlock{
			{
				Type: "section",
				Text: &SlackTextObject{Type: "mrkdwn", Text: truncate(section, maxSectionTextLength, slackTruncationSuffix)},
			},
			{
				Type:     "context",
				Elements: []SlackTextObject{{Type: "mrkdwn", Text: footer}},
			},
		},
	}
}

// Notify implements Notifier.
func (s *SlackNotifier) Notify(ctx context.Context, msg Message) error {
	return s.hook.deliver(ctx, buildSlackPayload(msg))
}
