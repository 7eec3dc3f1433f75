package auth

import "strings"

// PublicEndpoints never inspect the Authorization header:
// orchestration probes, Prometheus scraping, and the endpoints that hand
// out tokens.
var PublicEndpoints = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
	"/auth/login",
	"/auth/register",
}

// IsPublicEndpoint reports whether path is one of PublicEndpoints. Matching
// is exact, allowing one trailing slash or a query string, so "/health"
// does not match "/health/detail" or "/healthcheck".
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if path == endpoint || path == endpoint+"/" || strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}
