package notify

import (
	"strings"
	"testing"

	"brazucas-cork/internal/domain/entity"
)

func TestPendingReviewMessage(t *testing.T) {
	msg := PendingReviewMessage(PendingItem{Kind: entity.KindAd, ID: 7, Title: "Aulas de violão", Author: "joao"}, "https://brazucas.ie/admin/")

	if msg.Title != "Advertisement awaiting approval: Aulas de violão" {
		t.Errorf("title = %q", msg.Title)
	}
	if msg.URL != "https://brazucas.ie/admin/ad/7" {
		t.Errorf("url = %q", msg.URL)
	}
	if !strings.Contains(msg.Body, "joao") {
		t.Errorf("body must name the author: %q", msg.Body)
	}
	if msg.Footer != "ad #7" {
		t.Errorf("footer = %q", msg.Footer)
	}

	if got := PendingReviewMessage(PendingItem{Kind: entity.KindNews, ID: 1, Title: "x"}, ""); got.URL != "" {
		t.Errorf("no base URL must give no link, got %q", got.URL)
	}
}

func TestDigestMessage(t *testing.T) {
	if _, ok := DigestMessage(map[entity.Kind]int64{entity.KindNews: 0}, ""); ok {
		t.Fatal("empty queue must not produce a digest")
	}

	msg, ok := DigestMessage(map[entity.Kind]int64{entity.KindNews: 2, entity.KindAd: 3}, "https://brazucas.ie/admin")
	if !ok {
		t.Fatal("expected a digest")
	}
	if msg.Title != "5 item(s) awaiting moderation" {
		t.Errorf("title = %q", msg.Title)
	}
	if msg.Body != "• ad: 3\n• news: 2" {
		t.Errorf("body = %q", msg.Body)
	}
}
