package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brazucas-cork/internal/handler/http/pathutil"
	"brazucas-cork/internal/handler/http/responsewriter"
	"brazucas-cork/internal/observability/metrics"
)

// httpRequestsInFlight tracks the requests currently being served.
var httpRequestsInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being served",
	},
)

// MetricsMiddleware records request count, latency and sizes. Paths are
// normalized (/news/42 -> /news/:id) to keep label cardinality bounded.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()
		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()

		rw := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rw, r)

		metrics.RecordHTTPRequest(
			r.Method,
			pathutil.NormalizePath(r.URL.Path),
			strconv.Itoa(rw.StatusCode()),
			time.Since(start),
			int(max(r.ContentLength, 0)),
			rw.BytesWritten(),
		)
	})
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
