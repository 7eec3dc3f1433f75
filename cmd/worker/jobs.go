package main

import (
	"context"
	"database/sql"
	"log/slog"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/infra/notifier"
	"brazucas-cork/internal/observability/metrics"
	"brazucas-cork/internal/usecase/notify"
)

// pendingSource reports how many items wait for review per kind.
type pendingSource interface {
	PendingSummary(ctx context.Context) (map[entity.Kind]int64, error)
}

// statusSource reports item counts per kind and status.
type statusSource interface {
	StatusCounts(ctx context.Context) (map[entity.Kind]map[entity.Status]int64, error)
}

// broadcaster sends one message to every enabled channel.
type broadcaster interface {
	Broadcast(ctx context.Context, msg notifier.Message)
}

// digestJob reminds moderators of the review queue. Nothing is sent when the
// queue is empty.
func digestJob(src pendingSource, out broadcaster, reviewBaseURL string, logger *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		pending, err := src.PendingSummary(ctx)
		if err != nil {
			return err
		}
		msg, ok := notify.DigestMessage(pending, reviewBaseURL)
		if !ok {
			logger.Debug("review queue empty, digest skipped")
			return nil
		}
		out.Broadcast(ctx, msg)
		return nil
	}
}

// contentMetricsJob refreshes the per-status content gauges and the
// connection pool gauges.
func contentMetricsJob(src statusSource, database *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		counts, err := src.StatusCounts(ctx)
		if err != nil {
			return err
		}
		for kind, byStatus := range counts {
			metrics.UpdateContentByStatus(kind, byStatus)
		}
		if database != nil {
			metrics.RecordDBStats(database.Stats())
		}
		return nil
	}
}
