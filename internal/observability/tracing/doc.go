// Package tracing wires OpenTelemetry into the HTTP server.
//
// Init installs the global tracer provider; Middleware opens one server span
// per request and returns its id in X-Trace-Id so a client report can be
// matched against the logs.
//
//	shutdown, err := tracing.Init(ctx, tracing.Options{ServiceName: "brazucas-cork-api"})
//	defer shutdown(context.Background())
//	handler = tracing.Middleware(pathutil.NormalizePath)(handler)
package tracing
