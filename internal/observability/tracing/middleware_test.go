package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupExporter(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())
	})
	return exporter
}

func attr(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func idRoute(p string) string {
	if strings.HasPrefix(p, "/news/") {
		return "/news/:id"
	}
	return p
}

func TestMiddleware_CreatesSpan(t *testing.T) {
	exporter := setupExporter(t)

	handler := Middleware(idRoute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/news/42", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "PUT /news/:id", span.Name)

	v, ok := attr(span.Attributes, "http.route")
	require.True(t, ok)
	assert.Equal(t, "/news/:id", v.AsString())
	v, ok = attr(span.Attributes, "http.status_code")
	require.True(t, ok)
	assert.EqualValues(t, http.StatusCreated, v.AsInt64())
	assert.Equal(t, codes.Unset, span.Status.Code)

	assert.Len(t, rec.Header().Get("X-Trace-Id"), 32)
}

func TestMiddleware_NilRouteName(t *testing.T) {
	exporter := setupExporter(t)

	handler := Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ads", nil))

	require.Len(t, exporter.GetSpans(), 1)
	assert.Equal(t, "GET /ads", exporter.GetSpans()[0].Name)
}

func TestMiddleware_PropagatesTraceContext(t *testing.T) {
	exporter := setupExporter(t)

	var seen string
	handler := Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, span := GetTracer().Start(r.Context(), "child")
		seen = span.SpanContext().TraceID().String()
		span.End()
	}))

	req := httptest.NewRequest(http.MethodGet, "/news", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", seen)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", rec.Header().Get("X-Trace-Id"))
	assert.Len(t, exporter.GetSpans(), 2)
}

func TestMiddleware_StatusByCode(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   codes.Code
	}{
		{name: "5xx is an error", status: http.StatusServiceUnavailable, want: codes.Error},
		{name: "4xx is not", status: http.StatusForbidden, want: codes.Unset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := setupExporter(t)
			handler := Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Len(t, exporter.GetSpans(), 1)
			assert.Equal(t, tt.want, exporter.GetSpans()[0].Status.Code)
		})
	}
}

func TestInit_WithoutExporter(t *testing.T) {
	shutdown, err := Init(context.Background(), Options{ServiceName: "test", Version: "v0", SampleRatio: 0.5})
	require.NoError(t, err)
	t.Cleanup(func() {
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())
	})

	_, span := GetTracer().Start(context.Background(), "op")
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}
