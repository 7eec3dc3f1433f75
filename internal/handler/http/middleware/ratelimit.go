package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"brazucas-cork/internal/handler/http/respond"
)

var rateLimitRejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rate_limit_rejections_total",
		Help: "Total number of requests rejected by a rate limiter",
	},
	[]string{"limiter"},
)

var errTooManyRequests = errors.New("too many requests, try again later")

// RateLimiter is a per-IP sliding window limiter.
type RateLimiter struct {
	name        string
	limit       int
	window      time.Duration
	ipExtractor IPExtractor
	now         func() time.Time

	mu       sync.Mutex
	requests map[string][]time.Time
}

// NewRateLimiter allows limit requests per IP within any window. name
// labels the rejection metric and log lines.
func NewRateLimiter(name string, limit int, window time.Duration, ipExtractor IPExtractor) *RateLimiter {
	if ipExtractor == nil {
		ipExtractor = &RemoteAddrExtractor{}
	}
	return &RateLimiter{
		name:        name,
		limit:       limit,
		window:      window,
		ipExtractor: ipExtractor,
		now:         time.Now,
		requests:    make(map[string][]time.Time),
	}
}

// Middleware answers 429 with a Retry-After header once a client is over
// the limit. If the IP cannot be extracted the request is rejected with 500.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.ipExtractor.ExtractIP(r)
		if err != nil {
			slog.Warn("rate limiter: IP extraction failed, using RemoteAddr fallback",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr))
			ip, err = extractIPFromAddr(r.RemoteAddr)
			if err != nil {
				respond.SafeError(w, http.StatusInternalServerError, err)
				return
			}
		}

		allowed, retryAfter := rl.allow(ip)
		if !allowed {
			rateLimitRejections.WithLabelValues(rl.name).Inc()
			slog.Warn("rate limit exceeded",
				slog.String("limiter", rl.name),
				slog.String("ip", ip),
				slog.String("path", r.URL.Path),
				slog.Int("limit", rl.limit),
				slog.Duration("window", rl.window))
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			respond.Error(w, http.StatusTooManyRequests, errTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow records a request for ip unless the window is full. When it is
// full, it also returns how long until the oldest request expires.
func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := prune(rl.requests[ip], cutoff)
	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false, valid[0].Sub(cutoff)
	}
	rl.requests[ip] = append(valid, now)
	return true, 0
}

func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(timestamps) && !timestamps[i].After(cutoff) {
		i++
	}
	return timestamps[i:]
}

// CleanupExpired drops timestamps outside the window and forgets idle IPs.
func (rl *RateLimiter) CleanupExpired() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, timestamps := range rl.requests {
		if valid := prune(timestamps, cutoff); len(valid) == 0 {
			delete(rl.requests, ip)
		} else {
			rl.requests[ip] = valid
		}
	}
}

// ActiveIPs returns the number of tracked clients.
func (rl *RateLimiter) ActiveIPs() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.requests)
}

// StartCleanup runs CleanupExpired every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info("rate limiter cleanup stopped", slog.String("limiter", rl.name))
				return
			case <-ticker.C:
				rl.CleanupExpired()
				logger.Debug("rate limiter cleanup completed",
					slog.String("limiter", rl.name),
					slog.Int("active_ips", rl.ActiveIPs()))
			}
		}
	}()
}
