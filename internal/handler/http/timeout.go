package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"brazucas-cork/internal/handler/http/respond"
)

var errRequestTimeout = errors.New("request timeout")

// Timeout cancels the request context after d and answers 504 when the
// handler has not written anything by then. Writes after the deadline fail
// with http.ErrHandlerTimeout. A panic in the handler is re-raised on the
// serving goroutine so Recover still sees it.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			tw := &timeoutWriter{w: w}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
			case p := <-panicked:
				panic(p)
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.expired = true
				if !tw.started {
					respond.Error(w, http.StatusGatewayTimeout, errRequestTimeout)
				}
			}
		})
	}
}

// timeoutWriter serializes the handler's writes with the deadline.
type timeoutWriter struct {
	w       http.ResponseWriter
	mu      sync.Mutex
	started bool
	expired bool
}

func (tw *timeoutWriter) Header() http.Header { return tw.w.Header() }

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.expired || tw.started {
		return
	}
	tw.started = true
	tw.w.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.expired {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.started {
		tw.started = true
		tw.w.WriteHeader(http.StatusOK)
	}
	return tw.w.Write(b)
}
