package pagination

import (
	"log/slog"
	"time"
)

// LogRequest logs an incoming page request for kind.
func LogRequest(logger *slog.Logger, kind string, params Params) {
	logger.Info("paginated request",
		slog.String("kind", kind),
		slog.Int("page", params.Page),
		slog.Int("limit", params.Limit))
}

// LogResponse logs the served page with its duration.
func LogResponse(logger *slog.Logger, kind string, params Params, returnedCount int, duration time.Duration) {
	logger.Info("paginated response",
		slog.String("kind", kind),
		slog.Int("page", params.Page),
		slog.Int("limit", params.Limit),
		slog.Int("returned_count", returnedCount),
		slog.Int64("duration_ms", duration.Milliseconds()))
}

// LogError logs a failed page request. errorType is "validation" or "database".
func LogError(logger *slog.Logger, kind string, params Params, err error, errorType string) {
	logger.Warn("pagination error",
		slog.String("kind", kind),
		slog.Int("page", params.Page),
		slog.Int("limit", params.Limit),
		slog.String("error_type", errorType),
		slog.Any("error", err))
}
