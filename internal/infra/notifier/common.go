package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"brazucas-cork/internal/resilience/retry"
)

// RateLimitError is a 429 from a webhook service. Wait is how long the
// service asked us to back off.
type RateLimitError struct {
	Service string
	Wait    time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limit exceeded (retry after %v)", e.Service, e.Wait)
}

// RetryAfter lets the retry policy stretch its backoff to Wait.
func (e *RateLimitError) RetryAfter() time.Duration { return e.Wait }

func (e *RateLimitError) Unwrap() error {
	return &retry.StatusError{Code: http.StatusTooManyRequests, Message: e.Error()}
}

// ResponseError is any other non-2xx answer. 5xx is retried, 4xx is not.
type ResponseError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	kind := "client"
	if e.StatusCode >= 500 {
		kind = "server"
	}
	return fmt.Sprintf("%s API %s error %d: %s", e.Service, kind, e.StatusCode, e.Body)
}

func (e *ResponseError) Unwrap() error {
	return &retry.StatusError{Code: e.StatusCode, Message: e.Body}
}

// webhook posts JSON payloads and classifies the response.
type webhook struct {
	service     string
	url         string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	retry       retry.Policy
}

// deliver waits for the rate limiter and posts payload, retrying transient
// failures.
func (w *webhook) deliver(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", w.service, err)
	}

	if err := w.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	err = w.retry.Do(ctx, func(ctx context.Context) error {
		return w.post(ctx, body)
	})
	if err != nil {
		return fmt.Errorf("%s notification: %w", w.service, err)
	}
	return nil
}

func (w *webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Service: w.service, Wait: extractRetryAfter(resp, respBody)}
	case resp.StatusCode >= 400:
		return &ResponseError{Service: w.service, StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(respBody))
}

// extractRetryAfter reads retry_after from a JSON body (Discord reports
// fractional seconds) and falls back to the Retry-After header.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var payload struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.RetryAfter > 0 {
		return time.Duration(payload.RetryAfter * float64(time.Second))
	}
	if h := resp.Header.Get("Retry-After"); h != "" {
		if seconds, err := strconv.Atoi(h); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 5 * time.Second
}

// truncate shortens text to maxLength bytes including suffix.
func truncate(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}
	cut := max(maxLength-len(suffix), 0)
	return text[:cut] + suffix
}
