package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_job_runs_total",
		Help: "Total number of worker job runs by job and status",
	}, []string{"job", "status"})

	jobDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "worker_job_duration_seconds",
		Help:    "Duration of worker job runs in seconds",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 30, 120},
	}, []string{"job"})

	jobLastSuccessTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "worker_job_last_success_timestamp",
		Help: "Unix timestamp of the last successful run per job",
	}, []string{"job"})

	configFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "worker_config_fallbacks_total",
		Help: "Total number of invalid worker settings replaced by defaults",
	}, []string{"field"})

	configFallbackActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "worker_config_fallback_active",
		Help: "1 when any worker setting fell back to its default",
	})

	configLoadTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "worker_config_load_timestamp",
		Help: "Unix timestamp of the last worker config load",
	})
)

func recordJob(job string, seconds float64, err error) {
	jobDurationSeconds.WithLabelValues(job).Observe(seconds)
	if err != nil {
		jobRunsTotal.WithLabelValues(job, "failure").Inc()
		return
	}
	jobRunsTotal.WithLabelValues(job, "success").Inc()
	jobLastSuccessTimestamp.WithLabelValues(job).SetToCurrentTime()
}

func setFallbackActive(active bool) {
	if active {
		configFallbackActive.Set(1)
		return
	}
	configFallbackActive.Set(0)
}
