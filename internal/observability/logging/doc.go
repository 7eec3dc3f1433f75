// Package logging builds the process slog loggers and annotates them with
// the request ID.
//
//	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
//	logging.WithRequestID(r.Context(), logger).Info("news created", "news_id", id)
package logging
