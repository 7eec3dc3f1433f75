package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCORS(t *testing.T) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cfg, err := NewCORSConfig([]string{"https://brazucasemcork.ie", "http://localhost:5173"}, 600, logger)
	require.NoError(t, err)
	return CORS(cfg)(okHandler()), &buf
}

func TestNewCORSConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		maxAge  int
		wantErr bool
	}{
		{name: "valid", origins: []string{"https://brazucasemcork.ie"}, maxAge: 60},
		{name: "blank entries skipped", origins: []string{" ", "https://a.ie"}},
		{name: "empty", origins: nil, wantErr: true},
		{name: "bad scheme", origins: []string{"ftp://a.ie"}, wantErr: true},
		{name: "path", origins: []string{"https://a.ie/app"}, wantErr: true},
		{name: "trailing slash", origins: []string{"https://a.ie/"}, wantErr: true},
		{name: "negative max age", origins: []string{"https://a.ie"}, maxAge: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewCORSConfig(tt.origins, tt.maxAge, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultAllowedMethods, cfg.AllowedMethods)
			assert.NotNil(t, cfg.Logger)
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler, _ := testCORS(t)

	req := httptest.NewRequest(http.MethodOptions, "/news", nil)
	req.Header.Set("Origin", "https://brazucasemcork.ie")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://brazucasemcork.ie", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization, X-Request-ID", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_ActualRequest(t *testing.T) {
	handler, _ := testCORS(t)

	req := httptest.NewRequest(http.MethodGet, "/news", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	handler, logs := testCORS(t)

	req := httptest.NewRequest(http.MethodOptions, "/news", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "falls through to the next handler")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, logs.String(), "origin not allowed")
}

func TestCORS_NoOriginHeader(t *testing.T) {
	handler, _ := testCORS(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/news", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Vary"))
}
