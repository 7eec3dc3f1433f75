// Package retry re-runs outbound webhook calls with exponential backoff and
// jitter. Database calls are never retried.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Policy describes how often and how patiently to retry.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// Jitter is the fraction of each delay added at random, 0 to 1.
	Jitter float64
	// MaxRetryAfter caps a server-advertised wait. Zero means MaxDelay.
	MaxRetryAfter time.Duration
}

// Webhook is the policy for chat webhook deliveries. Moderation
// announcements are not latency sensitive, so backoff is generous.
func Webhook() Policy {
	return Policy{
		MaxAttempts:   3,
		InitialDelay:  2 * time.Second,
		MaxDelay:      10 * time.Second,
		Multiplier:    2,
		Jitter:        0.1,
		MaxRetryAfter: 30 * time.Second,
	}
}

// RetryAfterer is implemented by errors that carry a server-advertised wait,
// such as a 429 response.
type RetryAfterer interface {
	RetryAfter() time.Duration
}

// StatusError is an HTTP response that was not a success.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

// Do calls fn until it succeeds, returns a permanent error, ctx ends or the
// attempts run out. The returned error wraps the last failure.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := max(p.MaxAttempts, 1)
	delay := p.InitialDelay
	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			if attempt > 1 {
				slog.Debug("retry succeeded", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		wait := p.wait(delay, err)
		slog.Warn("attempt failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}

		delay = min(time.Duration(float64(delay)*p.Multiplier), p.MaxDelay)
	}

	return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}

// wait is the backoff delay with jitter, stretched to any Retry-After the
// server sent.
func (p Policy) wait(delay time.Duration, err error) time.Duration {
	d := jitter(delay, p.Jitter)
	var ra RetryAfterer
	if errors.As(err, &ra) {
		limit := p.MaxRetryAfter
		if limit <= 0 {
			limit = p.MaxDelay
		}
		d = max(d, min(ra.RetryAfter(), limit))
	}
	return d
}

// Retryable reports whether err is transient: timeouts, refused or reset
// connections, 408, 429 and 5xx. Cancellation is never retried.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, errno := range []error{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}

	var status *StatusError
	if errors.As(err, &status) {
		return status.Code >= 500 ||
			status.Code == http.StatusTooManyRequests ||
			status.Code == http.StatusRequestTimeout
	}
	return false
}

func jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 || d <= 0 {
		return d
	}
	fraction = min(fraction, 1)
	// #nosec G404 -- backoff jitter needs no cryptographic randomness
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
