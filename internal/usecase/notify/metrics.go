package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_alerts_dispatched_total",
		Help: "Moderation alerts handed to a channel",
	}, []string{"channel"})

	// result is success or failure.
	sent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_alerts_sent_total",
		Help: "Moderation alert deliveries by result",
	}, []string{"channel", "result"})

	sendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moderation_alert_duration_seconds",
		Help:    "Time to deliver a moderation alert, retries included",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
	}, []string{"channel"})

	// reason is pool_full, circuit_open or shutdown.
	dropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_alerts_dropped_total",
		Help: "Moderation alerts never attempted",
	}, []string{"channel", "reason"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moderation_alerts_in_flight",
		Help: "Alert deliveries currently running",
	})

	channelsEnabled = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "moderation_alert_channels_enabled",
		Help: "Number of enabled alert channels",
	})
)

// RecordDispatch counts an alert about to be sent on channel.
func RecordDispatch(channel string) {
	dispatched.WithLabelValues(channel).Inc()
}

// RecordSuccess counts a delivered alert.
func RecordSuccess(channel string, d time.Duration) {
	sent.WithLabelValues(channel, "success").Inc()
	sendDuration.WithLabelValues(channel).Observe(d.Seconds())
}

// RecordFailure counts an alert that failed after all retries.
func RecordFailure(channel string, d time.Duration) {
	sent.WithLabelValues(channel, "failure").Inc()
	sendDuration.WithLabelValues(channel).Observe(d.Seconds())
}

func RecordDropped(channel, reason string) {
	dropped.WithLabelValues(channel, reason).Inc()
}

func IncrementActiveGoroutines() { inFlight.Inc() }

func DecrementActiveGoroutines() { inFlight.Dec() }

// SetChannelsEnabled is set once when the service is built.
func SetChannelsEnabled(count float64) {
	channelsEnabled.Set(count)
}
