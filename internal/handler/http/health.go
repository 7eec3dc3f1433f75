// Package http holds the cross-cutting HTTP pieces of the API server:
// middleware, health probes and request metrics. Resource handlers live in
// the sub-packages.
package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"brazucas-cork/internal/handler/http/respond"
	"brazucas-cork/internal/usecase/notify"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse is the data of the /health envelope.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one dependency check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Pinger is satisfied by the Redis nickname cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ChannelReporter is satisfied by notify.Service.
type ChannelReporter interface {
	GetChannelHealth() []notify.ChannelHealthStatus
}

// HealthHandler reports the database, the nickname cache and the
// notification channels. Only the database can make the service unhealthy;
// the others are optional and degrade it at most.
type HealthHandler struct {
	DB       *sql.DB
	Cache    Pinger
	Notifier ChannelReporter
	Version  string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	if h.DB != nil {
		checks["database"] = h.checkDatabase(ctx)
	} else {
		checks["database"] = CheckStatus{Status: statusUnhealthy, Message: "not configured"}
	}
	if h.Cache != nil {
		checks["cache"] = h.checkCache(ctx)
	}
	if h.Notifier != nil {
		checks["notifications"] = h.checkNotifications()
	}

	status := statusHealthy
	for _, c := range checks {
		if c.Status == statusDegraded {
			status = statusDegraded
		}
	}
	code := http.StatusOK
	if checks["database"].Status == statusUnhealthy {
		status = statusUnhealthy
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	env := respond.Envelope{
		Success: code == http.StatusOK,
		Data: HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
			Version:   h.Version,
		},
	}
	if code != http.StatusOK {
		env.Error = "service unhealthy"
	}
	respond.JSON(w, code, env)
}

// checkDatabase pings the database and reports pool statistics. A pool
// above 80% utilization is degraded.
func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: statusUnhealthy, Message: respond.SanitizeError(err)}
	}

	stats := h.DB.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
	if stats.MaxOpenConnections == 0 {
		return CheckStatus{Status: statusDegraded, Message: "connection pool max connections not configured", Details: details}
	}

	utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
	details["utilization_percent"] = utilization
	if utilization >= 80.0 {
		return CheckStatus{Status: statusDegraded, Message: "connection pool utilization above 80%", Details: details}
	}
	return CheckStatus{Status: statusHealthy, Details: details}
}

func (h *HealthHandler) checkCache(ctx context.Context) CheckStatus {
	if err := h.Cache.Ping(ctx); err != nil {
		return CheckStatus{Status: statusDegraded, Message: "nickname cache unreachable, falling back to the database"}
	}
	return CheckStatus{Status: statusHealthy}
}

func (h *HealthHandler) checkNotifications() CheckStatus {
	channels := h.Notifier.GetChannelHealth()
	details := make(map[string]any, len(channels))
	status := statusHealthy
	for _, ch := range channels {
		details[ch.Name] = ch
		if ch.Enabled && ch.CircuitBreakerOpen {
			status = statusDegraded
		}
	}
	c := CheckStatus{Status: status, Details: details}
	if status == statusDegraded {
		c.Message = "a notification circuit breaker is open"
	}
	return c
}

// ReadyHandler is the readiness probe: ready once the database answers.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil {
		respond.JSON(w, http.StatusServiceUnavailable, respond.Envelope{Error: "database not configured"})
		return
	}
	if err := h.DB.PingContext(ctx); err != nil {
		respond.JSON(w, http.StatusServiceUnavailable, respond.Envelope{Error: "database not ready"})
		return
	}
	respond.OK(w, http.StatusOK, map[string]string{"status": "ready"})
}

// LiveHandler is the liveness probe. It always answers 200.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.OK(w, http.StatusOK, map[string]string{"status": "alive"})
}
