// Package worker hosts the background jobs of the moderation worker: the
// admin digest of pending content and the periodic refresh of the content
// gauges. It also provides the worker's config, metrics and health probe.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"brazucas-cork/internal/config"
)

// WorkerConfig controls job scheduling.
type WorkerConfig struct {
	// DigestSchedule is the cron expression of the pending-content digest.
	DigestSchedule string
	// MetricsSchedule is the cron expression of the gauge refresh.
	MetricsSchedule string
	// Timezone is the IANA zone the schedules are evaluated in.
	Timezone string
	// JobTimeout bounds a single job run.
	JobTimeout time.Duration
	// HealthPort serves /health, /health/ready and /metrics.
	HealthPort int
}

// DefaultConfig is a daily 09:00 Dublin digest and a gauge refresh every
// minute.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		DigestSchedule:  "0 9 * * *",
		MetricsSchedule: "@every 1m",
		Timezone:        "Europe/Dublin",
		JobTimeout:      2 * time.Minute,
		HealthPort:      9091,
	}
}

// Validate reports every invalid field at once.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.DigestSchedule); err != nil {
		errs = append(errs, fmt.Errorf("digest schedule: %w", err))
	}
	if err := config.ValidateCronSchedule(c.MetricsSchedule); err != nil {
		errs = append(errs, fmt.Errorf("metrics schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.JobTimeout, 10*time.Second, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

// Location returns the loaded Timezone. Call Validate first.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// rawWorkerEnv holds the worker variables unparsed so a bad value can fall
// back field by field instead of failing the whole load.
type rawWorkerEnv struct {
	DigestSchedule  string `env:"DIGEST_SCHEDULE"`
	MetricsSchedule string `env:"METRICS_REFRESH_SCHEDULE"`
	Timezone        string `env:"WORKER_TIMEZONE"`
	JobTimeout      string `env:"WORKER_JOB_TIMEOUT"`
	HealthPort      string `env:"WORKER_HEALTH_PORT"`
}

// LoadConfigFromEnv reads the worker variables. Each invalid value is
// replaced by its default, logged and counted; the result is always usable.
func LoadConfigFromEnv(logger *slog.Logger) (*WorkerConfig, error) {
	var raw rawWorkerEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parsing worker env: %w", err)
	}

	cfg := DefaultConfig()
	fb := fallbacks{logger: logger}

	if raw.DigestSchedule != "" {
		if err := config.ValidateCronSchedule(raw.DigestSchedule); err != nil {
			fb.apply("digest_schedule", "DIGEST_SCHEDULE", raw.DigestSchedule, err)
		} else {
			cfg.DigestSchedule = raw.DigestSchedule
		}
	}
	if raw.MetricsSchedule != "" {
		if err := config.ValidateCronSchedule(raw.MetricsSchedule); err != nil {
			fb.apply("metrics_schedule", "METRICS_REFRESH_SCHEDULE", raw.MetricsSchedule, err)
		} else {
			cfg.MetricsSchedule = raw.MetricsSchedule
		}
	}
	if raw.Timezone != "" {
		if err := config.ValidateTimezone(raw.Timezone); err != nil {
			fb.apply("timezone", "WORKER_TIMEZONE", raw.Timezone, err)
		} else {
			cfg.Timezone = raw.Timezone
		}
	}
	if raw.JobTimeout != "" {
		d, err := time.ParseDuration(raw.JobTimeout)
		if err == nil {
			err = config.ValidateDuration(d, 10*time.Second, time.Hour)
		}
		if err != nil {
			fb.apply("job_timeout", "WORKER_JOB_TIMEOUT", raw.JobTimeout, err)
		} else {
			cfg.JobTimeout = d
		}
	}
	if raw.HealthPort != "" {
		port, err := strconv.Atoi(raw.HealthPort)
		if err == nil {
			err = config.ValidateIntRange(port, 1024, 65535)
		}
		if err != nil {
			fb.apply("health_port", "WORKER_HEALTH_PORT", raw.HealthPort, err)
		} else {
			cfg.HealthPort = port
		}
	}

	setFallbackActive(fb.applied > 0)
	configLoadTimestamp.SetToCurrentTime()
	return &cfg, nil
}

type fallbacks struct {
	logger  *slog.Logger
	applied int
}

func (f *fallbacks) apply(field, envKey, value string, err error) {
	f.applied++
	configFallbacksTotal.WithLabelValues(field).Inc()
	if f.logger != nil {
		f.logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("env_key", envKey),
			slog.String("invalid_value", value),
			slog.Any("error", err))
	}
}
