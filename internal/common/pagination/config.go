// Package pagination implements offset pagination for the public content
// listings: query parsing, offset math, response metadata and metrics.
package pagination

// Config holds pagination settings.
type Config struct {
	DefaultPage  int // Default page number (typically 1)
	DefaultLimit int // Default items per page (typically 20)
	MaxLimit     int // Maximum allowed items per page (typically 100)
}

// DefaultConfig returns page=1, limit=20, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// NewConfig builds a Config from process settings. Non-positive values fall
// back to DefaultConfig, and a default limit above the maximum is capped.
func NewConfig(defaultLimit, maxLimit int) Config {
	cfg := DefaultConfig()
	if maxLimit > 0 {
		cfg.MaxLimit = maxLimit
	}
	if defaultLimit > 0 {
		cfg.DefaultLimit = defaultLimit
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	return cfg
}
