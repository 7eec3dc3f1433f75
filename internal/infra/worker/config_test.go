package worker

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0 9 * * *", cfg.DigestSchedule)
	assert.Equal(t, "@every 1m", cfg.MetricsSchedule)
	assert.Equal(t, "Europe/Dublin", cfg.Timezone)
	assert.Equal(t, 2*time.Minute, cfg.JobTimeout)
	assert.Equal(t, 9091, cfg.HealthPort)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "Europe/Dublin", cfg.Location().String())
}

func TestWorkerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WorkerConfig)
		wantErr string
	}{
		{name: "bad digest schedule", mutate: func(c *WorkerConfig) { c.DigestSchedule = "nope" }, wantErr: "digest schedule"},
		{name: "empty metrics schedule", mutate: func(c *WorkerConfig) { c.MetricsSchedule = "" }, wantErr: "metrics schedule"},
		{name: "bad timezone", mutate: func(c *WorkerConfig) { c.Timezone = "Mars/Olympus" }, wantErr: "timezone"},
		{name: "timeout too short", mutate: func(c *WorkerConfig) { c.JobTimeout = time.Second }, wantErr: "job timeout"},
		{name: "privileged port", mutate: func(c *WorkerConfig) { c.HealthPort = 80 }, wantErr: "health port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkerConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DigestSchedule = "bad"
	cfg.HealthPort = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest schedule")
	assert.Contains(t, err.Error(), "health port")
}

func TestLoadConfigFromEnv_ValidValues(t *testing.T) {
	t.Setenv("DIGEST_SCHEDULE", "30 8 * * 1-5")
	t.Setenv("METRICS_REFRESH_SCHEDULE", "@every 30s")
	t.Setenv("WORKER_TIMEZONE", "UTC")
	t.Setenv("WORKER_JOB_TIMEOUT", "5m")
	t.Setenv("WORKER_HEALTH_PORT", "9191")

	cfg, err := LoadConfigFromEnv(slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "30 8 * * 1-5", cfg.DigestSchedule)
	assert.Equal(t, "@every 30s", cfg.MetricsSchedule)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 5*time.Minute, cfg.JobTimeout)
	assert.Equal(t, 9191, cfg.HealthPort)
}

func TestLoadConfigFromEnv_FallsBackPerField(t *testing.T) {
	t.Setenv("DIGEST_SCHEDULE", "every morning")
	t.Setenv("WORKER_TIMEZONE", "UTC")
	t.Setenv("WORKER_JOB_TIMEOUT", "forever")
	t.Setenv("WORKER_HEALTH_PORT", "99999")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	cfg, err := LoadConfigFromEnv(logger)
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.DigestSchedule, cfg.DigestSchedule)
	assert.Equal(t, "UTC", cfg.Timezone, "valid fields are kept")
	assert.Equal(t, defaults.JobTimeout, cfg.JobTimeout)
	assert.Equal(t, defaults.HealthPort, cfg.HealthPort)
	assert.NoError(t, cfg.Validate())

	logs := buf.String()
	assert.Contains(t, logs, "configuration fallback applied")
	assert.Contains(t, logs, "DIGEST_SCHEDULE")
	assert.Contains(t, logs, "WORKER_HEALTH_PORT")
}

func TestLoadConfigFromEnv_Unset(t *testing.T) {
	cfg, err := LoadConfigFromEnv(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}
