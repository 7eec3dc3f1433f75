package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// tokenVerifications counts bearer tokens by outcome.
	tokenVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_verifications_total",
			Help: "Bearer token verifications by result",
		},
		[]string{"result"}, // valid | invalid | malformed
	)

	// tokenVerifyDuration tracks token verification latency.
	tokenVerifyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_token_verify_duration_seconds",
			Help:    "Bearer token verification duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	// tokensIssued counts issued tokens by role and endpoint.
	tokensIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "JWTs issued by role and endpoint",
		},
		[]string{"role", "endpoint"},
	)

	// forbiddenAttempts counts role-gate rejections by role and method.
	forbiddenAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forbidden_attempts_total",
			Help: "Forbidden access attempts by role and method",
		},
		[]string{"role", "method"},
	)
)

// RecordTokenVerification records one token check.
func RecordTokenVerification(result string, d time.Duration) {
	tokenVerifications.WithLabelValues(result).Inc()
	tokenVerifyDuration.Observe(d.Seconds())
}

// RecordTokenIssued records a token handed out by endpoint.
func RecordTokenIssued(role, endpoint string) {
	tokensIssued.WithLabelValues(role, endpoint).Inc()
}

// RecordForbiddenAttempt records a rejected role check.
func RecordForbiddenAttempt(role, method string) {
	forbiddenAttempts.WithLabelValues(role, method).Inc()
}
