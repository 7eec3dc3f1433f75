package pagination

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts page requests by content kind, status code and page bucket.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_pagination_requests_total",
			Help: "Total number of paginated content requests",
		},
		[]string{"kind", "status", "page_range"},
	)

	// DurationSeconds tracks how long a page takes to serve.
	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_pagination_duration_seconds",
			Help:    "Paginated request duration distribution",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
		},
		[]string{"kind"},
	)

	// PublishedTotal is the total seen by the last COUNT query per kind.
	PublishedTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "content_pagination_published_total",
			Help: "Published items reported by the most recent page request",
		},
		[]string{"kind"},
	)

	// ErrorsTotal counts pagination errors by kind and type.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_pagination_errors_total",
			Help: "Total number of pagination errors",
		},
		[]string{"kind", "type"},
	)
)

// RecordRequest records a served page.
func RecordRequest(kind string, statusCode, page int) {
	RequestsTotal.WithLabelValues(kind, strconv.Itoa(statusCode), getPageRangeBucket(page)).Inc()
}

// RecordDuration records a page duration in seconds.
func RecordDuration(kind string, seconds float64) {
	DurationSeconds.WithLabelValues(kind).Observe(seconds)
}

// UpdateTotalCount sets the published gauge for kind.
func UpdateTotalCount(kind string, count int64) {
	PublishedTotal.WithLabelValues(kind).Set(float64(count))
}

// RecordError records a pagination error. errorType is "validation" or "database".
func RecordError(kind, errorType string) {
	ErrorsTotal.WithLabelValues(kind, errorType).Inc()
}

func getPageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
