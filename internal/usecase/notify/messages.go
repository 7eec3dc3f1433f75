package notify

import (
	"fmt"
	"sort"
	"strings"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/infra/notifier"
)

// PendingItem describes a content item that just entered review.
type PendingItem struct {
	Kind   entity.Kind
	ID     int64
	Title  string
	Author string
}

var kindLabels = map[entity.Kind]string{
	entity.KindNews: "News post",
	entity.KindAd:   "Advertisement",
}

// PendingReviewMessage builds the alert for one item awaiting approval.
// reviewBaseURL may be empty, in which case the message carries no link.
func PendingReviewMessage(item PendingItem, reviewBaseURL string) notifier.Message {
	label := kindLabels[item.Kind]
	if label == "" {
		label = string(item.Kind)
	}
	msg := notifier.Message{
		Title:  fmt.Sprintf("%s awaiting approval: %s", label, item.Title),
		Body:   fmt.Sprintf("Submitted by *%s*. Approve or reject it in the admin panel.", item.Author),
		Footer: fmt.Sprintf("%s #%d", item.Kind, item.ID),
	}
	if reviewBaseURL != "" {
		msg.URL = fmt.Sprintf("%s/%s/%d", strings.TrimRight(reviewBaseURL, "/"), item.Kind, item.ID)
	}
	return msg
}

// DigestMessage summarises the moderation queue. It returns false when
// nothing is pending so callers can skip sending.
func DigestMessage(pending map[entity.Kind]int64, reviewBaseURL string) (notifier.Message, bool) {
	var total int64
	kinds := make([]string, 0, len(pending))
	for k, n := range pending {
		total += n
		kinds = append(kinds, string(k))
	}
	if total == 0 {
		return notifier.Message{}, false
	}
	sort.Strings(kinds)

	lines := make([]string, 0, len(kinds))
	for _, k := range kinds {
		lines = append(lines, fmt.Sprintf("• %s: %d", k, pending[entity.Kind(k)]))
	}
	return notifier.Message{
		Title:  fmt.Sprintf("%d item(s) awaiting moderation", total),
		Body:   strings.Join(lines, "\n"),
		URL:    reviewBaseURL,
		Footer: "daily moderation digest",
	}, true
}
