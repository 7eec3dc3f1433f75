package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
	"time"
)

func fast() Policy {
	return Policy{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

type rateLimited struct{ after time.Duration }

func (e rateLimited) Error() string             { return "slow down" }
func (e rateLimited) RetryAfter() time.Duration { return e.after }
func (e rateLimited) Unwrap() error             { return &StatusError{Code: 429} }

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestDo(t *testing.T) {
	tests := []struct {
		name         string
		failures     int
		err          error
		wantAttempts int
		wantErr      bool
	}{
		{name: "first try", failures: 0, wantAttempts: 1},
		{name: "recovers from 5xx", failures: 2, err: &StatusError{Code: 502}, wantAttempts: 3},
		{name: "gives up after max attempts", failures: 10, err: &StatusError{Code: 503}, wantAttempts: 3, wantErr: true},
		{name: "permanent 4xx is not retried", failures: 10, err: &StatusError{Code: 400}, wantAttempts: 1, wantErr: true},
		{name: "plain error is not retried", failures: 10, err: errors.New("bad payload"), wantAttempts: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := fast().Do(context.Background(), func(context.Context) error {
				attempts++
				if attempts <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
			if tt.wantErr && !errors.Is(err, tt.err) {
				t.Errorf("returned error %v does not wrap %v", err, tt.err)
			}
		})
	}
}

func TestDo_ContextCanceledDuringWait(t *testing.T) {
	p := Policy{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour, Multiplier: 1}
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func(context.Context) error {
			attempts++
			return &StatusError{Code: 500}
		})
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancel")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestDo_HonorsRetryAfter(t *testing.T) {
	p := fast()
	p.MaxRetryAfter = 50 * time.Millisecond

	attempts := 0
	start := time.Now()
	err := p.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts == 1 {
			return rateLimited{after: 30 * time.Millisecond}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("elapsed = %v, want at least the advertised 30ms", elapsed)
	}
}

func TestWait_CapsRetryAfter(t *testing.T) {
	p := Policy{MaxDelay: 10 * time.Millisecond, MaxRetryAfter: 20 * time.Millisecond}
	if got := p.wait(time.Millisecond, rateLimited{after: time.Hour}); got != 20*time.Millisecond {
		t.Errorf("wait = %v, want 20ms", got)
	}

	p.MaxRetryAfter = 0
	if got := p.wait(time.Millisecond, rateLimited{after: time.Hour}); got != 10*time.Millisecond {
		t.Errorf("wait without MaxRetryAfter = %v, want MaxDelay", got)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), false},
		{"net timeout", timeoutErr{}, true},
		{"connection refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"connection reset", syscall.ECONNRESET, true},
		{"500", &StatusError{Code: 500}, true},
		{"503 wrapped", fmt.Errorf("slack: %w", &StatusError{Code: 503}), true},
		{"429", &StatusError{Code: 429}, true},
		{"408", &StatusError{Code: 408}, true},
		{"404", &StatusError{Code: 404}, false},
		{"rate limited via unwrap", rateLimited{after: time.Second}, true},
		{"other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWebhook(t *testing.T) {
	p := Webhook()
	if p.MaxAttempts != 3 || p.InitialDelay != 2*time.Second || p.MaxRetryAfter != 30*time.Second {
		t.Errorf("Webhook() = %+v", p)
	}
}

func TestJitter(t *testing.T) {
	base := 100 * time.Millisecond
	for range 100 {
		got := jitter(base, 0.5)
		if got < base || got > base+base/2 {
			t.Fatalf("jitter(%v, 0.5) = %v out of range", base, got)
		}
	}
	if got := jitter(base, 0); got != base {
		t.Errorf("jitter with zero fraction = %v, want %v", got, base)
	}
}
