// Package middleware holds the browser-facing HTTP middleware: CORS and the
// per-IP limiter guarding the credential endpoints.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CORSConfig is the cross-origin policy of the API.
type CORSConfig struct {
	// AllowedOrigins is an exact-match whitelist, e.g. "https://brazucasemcork.ie".
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// MaxAge is the preflight cache duration in seconds.
	MaxAge int
	Logger *slog.Logger
}

// DefaultAllowedMethods are the verbs the API serves.
var DefaultAllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}

// DefaultAllowedHeaders are the request headers the frontend sends.
var DefaultAllowedHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}

// NewCORSConfig validates origins and fills the default methods and headers.
// An origin must be an http(s) scheme and host with no path, query or
// trailing slash.
func NewCORSConfig(origins []string, maxAge int, logger *slog.Logger) (CORSConfig, error) {
	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if err := validateOrigin(o); err != nil {
			return CORSConfig{}, err
		}
		cleaned = append(cleaned, o)
	}
	if len(cleaned) == 0 {
		return CORSConfig{}, fmt.Errorf("at least one allowed origin must be configured")
	}
	if maxAge < 0 {
		return CORSConfig{}, fmt.Errorf("max age must not be negative: %d", maxAge)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return CORSConfig{
		AllowedOrigins: cleaned,
		AllowedMethods: DefaultAllowedMethods,
		AllowedHeaders: DefaultAllowedHeaders,
		MaxAge:         maxAge,
		Logger:         logger,
	}, nil
}

func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin URL '%s': %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin must use http or https scheme: %s", origin)
	}
	if u.Host == "" {
		return fmt.Errorf("origin must include a host: %s", origin)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("origin must not include path, query or fragment: %s", origin)
	}
	return nil
}

func (c CORSConfig) allowed(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

// CORS echoes allowed origins back with credentials enabled and answers
// preflight requests with 204. Disallowed origins get no CORS headers, so
// the browser blocks the response.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			if !config.allowed(origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
