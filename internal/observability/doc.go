// Package observability groups the process telemetry: slog loggers in
// logging, Prometheus collectors in metrics and OpenTelemetry spans in
// tracing.
package observability
