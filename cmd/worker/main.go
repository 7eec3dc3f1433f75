package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"brazucas-cork/internal/config"
	"brazucas-cork/internal/domain/entity"
	pgRepo "brazucas-cork/internal/infra/adapter/persistence/postgres"
	"brazucas-cork/internal/infra/db"
	"brazucas-cork/internal/infra/notifier"
	workerPkg "brazucas-cork/internal/infra/worker"
	"brazucas-cork/internal/observability/logging"
	"brazucas-cork/internal/repository"
	modUC "brazucas-cork/internal/usecase/moderation"
	"brazucas-cork/internal/usecase/notify"
)

// waitForMigrations blocks until the API process has created the schema.
func waitForMigrations(ctx context.Context, logger *slog.Logger, database *sql.DB) error {
	const probe = "SELECT 1 FROM news LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.ExecContext(ctx, probe); err == nil {
			return nil
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return errors.New("migrations did not complete in time")
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat).With(slog.String("component", "worker"))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("worker exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Invalid fields fall back to defaults; the error only reports them.
	workerCfg, err := workerPkg.LoadConfigFromEnv(logger)
	if err != nil {
		logger.Warn("worker configuration fell back to defaults", slog.Any("error", err))
	}

	database, err := db.Open(ctx, cfg.DatabaseURL, db.ConnectionConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()
	if err := waitForMigrations(ctx, logger, database); err != nil {
		return err
	}

	notifySvc := notify.NewService([]notify.Channel{
		notify.NewSlackChannel(notifier.SlackConfig{
			Enabled:    cfg.Slack.Enabled,
			WebhookURL: cfg.Slack.WebhookURL,
			Timeout:    cfg.Slack.Timeout,
		}),
		notify.NewDiscordChannel(notifier.DiscordConfig{
			Enabled:    cfg.Discord.Enabled,
			WebhookURL: cfg.Discord.WebhookURL,
			Timeout:    cfg.Discord.Timeout,
		}),
	}, cfg.Notify.MaxConcurrent, cfg.Notify.ReviewBaseURL, logger)

	modSvc := &modUC.Service{
		Stores: map[entity.Kind]repository.ApprovalStore{
			entity.KindNews: pgRepo.NewNewsRepo(database),
			entity.KindAd:   pgRepo.NewAdRepo(database),
		},
		Logger: logger,
	}

	scheduler := workerPkg.NewScheduler(workerCfg.Location(), workerCfg.JobTimeout, logger)
	jobs := []workerPkg.Job{
		{
			Name:     "digest",
			Schedule: workerCfg.DigestSchedule,
			Run:      digestJob(modSvc, notifySvc, cfg.Notify.ReviewBaseURL, logger),
		},
		{
			Name:     "content-metrics",
			Schedule: workerCfg.MetricsSchedule,
			Run:      contentMetricsJob(modSvc, database),
		},
	}
	for _, job := range jobs {
		if err := scheduler.Add(job); err != nil {
			return fmt.Errorf("schedule %s: %w", job.Name, err)
		}
	}

	health := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerCfg.HealthPort), scheduler, logger)
	healthErr := make(chan error, 1)
	go func() { healthErr <- health.Start(ctx) }()

	// Gauges are populated immediately rather than after the first tick.
	if err := scheduler.RunNow(ctx, jobs[1]); err != nil {
		logger.Warn("initial metrics refresh failed", slog.Any("error", err))
	}

	scheduler.Start()
	health.SetReady(true)
	logger.Info("worker started",
		slog.String("digest_schedule", workerCfg.DigestSchedule),
		slog.String("metrics_schedule", workerCfg.MetricsSchedule),
		slog.String("timezone", workerCfg.Timezone))

	select {
	case <-ctx.Done():
	case err := <-healthErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	logger.Info("shutting down worker...")
	health.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), workerCfg.JobTimeout)
	defer cancel()
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Warn("jobs still running at shutdown", slog.Any("error", err))
	}
	if err := notifySvc.Shutdown(shutdownCtx); err != nil {
		logger.Warn("notification drain incomplete", slog.Any("error", err))
	}
	logger.Info("worker stopped")
	return nil
}
