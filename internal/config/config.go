// Package config loads process configuration from the environment and the
// security policy from YAML.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// MinJWTSecretLength is the minimum accepted JWT_SECRET length (256 bits).
const MinJWTSecretLength = 32

// knownWeakSecrets are placeholder values from example env files.
var knownWeakSecrets = []string{
	"change-me-to-a-32-character-secret!!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY_32B",
	"00000000000000000000000000000000",
}

// Config holds the settings shared by the API server and the worker.
type Config struct {
	Version   string `env:"VERSION" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	DatabaseURL string   `env:"DATABASE_URL,required,notEmpty"`
	DB          DBConfig `envPrefix:"DB_"`

	JWTSecret          string `env:"JWT_SECRET"`
	SecurityConfigPath string `env:"SECURITY_CONFIG" envDefault:"configs/security.yaml"`

	// OTLPEndpoint exports traces over OTLP/HTTP when set.
	OTLPEndpoint     string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TraceSampleRatio float64 `env:"OTEL_TRACES_SAMPLE_RATIO" envDefault:"1"`

	// RedisURL enables the nickname cache when set.
	RedisURL string `env:"REDIS_URL"`

	Admin      AdminConfig      `envPrefix:"ADMIN_"`
	Notify     NotifyConfig     `envPrefix:"NOTIFY_"`
	Slack      WebhookConfig    `envPrefix:"SLACK_"`
	Discord    WebhookConfig    `envPrefix:"DISCORD_"`
	CORS       CORSConfig       `envPrefix:"CORS_"`
	RateLimit  RateLimitConfig  `envPrefix:"RATE_LIMIT_"`
	Pagination PaginationConfig `envPrefix:"PAGINATION_"`
}

// DBConfig tunes the database/sql pool.
type DBConfig struct {
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"30m"`
}

// AdminConfig bootstraps the first admin account. Empty Email disables it.
type AdminConfig struct {
	Email    string `env:"EMAIL"`
	Nickname string `env:"NICKNAME" envDefault:"admin"`
	Password string `env:"PASSWORD"`
}

// NotifyConfig controls admin notifications.
type NotifyConfig struct {
	MaxConcurrent int `env:"MAX_CONCURRENT" envDefault:"10"`
	// ReviewBaseURL is the admin panel root used to link pending items.
	ReviewBaseURL string `env:"REVIEW_BASE_URL"`
}

// WebhookConfig configures one incoming webhook.
type WebhookConfig struct {
	Enabled    bool          `env:"ENABLED" envDefault:"false"`
	WebhookURL string        `env:"WEBHOOK_URL"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	MaxAge         int      `env:"MAX_AGE" envDefault:"86400"`
}

// RateLimitConfig throttles the credential endpoints per client IP.
type RateLimitConfig struct {
	AuthRequests int           `env:"AUTH_REQUESTS" envDefault:"10"`
	Window       time.Duration `env:"WINDOW" envDefault:"1m"`
	// TrustProxy reads the client IP from X-Forwarded-For when the peer is
	// one of TrustedProxies.
	TrustProxy     bool     `env:"TRUST_PROXY" envDefault:"false"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// PaginationConfig bounds list endpoints.
type PaginationConfig struct {
	DefaultLimit int `env:"DEFAULT_LIMIT" envDefault:"20"`
	MaxLimit     int `env:"MAX_LIMIT" envDefault:"100"`
}

// Load parses the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if err := ValidateIntRange(c.Port, 1, 65535); err != nil {
		errs = append(errs, fmt.Errorf("PORT: %w", err))
	}
	if err := ValidateIntRange(c.Notify.MaxConcurrent, 1, 100); err != nil {
		errs = append(errs, fmt.Errorf("NOTIFY_MAX_CONCURRENT: %w", err))
	}
	if err := ValidateIntRange(c.Pagination.DefaultLimit, 1, c.Pagination.MaxLimit); err != nil {
		errs = append(errs, fmt.Errorf("PAGINATION_DEFAULT_LIMIT: %w", err))
	}
	if err := ValidateIntRange(c.RateLimit.AuthRequests, 1, 10000); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_AUTH_REQUESTS: %w", err))
	}
	if c.RateLimit.TrustProxy && len(c.RateLimit.TrustedProxies) == 0 {
		errs = append(errs, errors.New("RATE_LIMIT_TRUSTED_PROXIES is required when RATE_LIMIT_TRUST_PROXY=true"))
	}
	if c.Slack.Enabled && c.Slack.WebhookURL == "" {
		errs = append(errs, errors.New("SLACK_WEBHOOK_URL is required when SLACK_ENABLED=true"))
	}
	if c.Discord.Enabled && c.Discord.WebhookURL == "" {
		errs = append(errs, errors.New("DISCORD_WEBHOOK_URL is required when DISCORD_ENABLED=true"))
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	return errors.Join(errs...)
}

// ValidateJWTSecret checks the token signing secret. Only the API server
// signs tokens, so the worker does not call it.
func (c *Config) ValidateJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", MinJWTSecretLength)
	}
	for _, weak := range knownWeakSecrets {
		if strings.EqualFold(c.JWTSecret, weak) {
			return errors.New("JWT_SECRET is a known example value and must not be used")
		}
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AdminBootstrap reports whether an admin account should be ensured at start-up.
func (c *Config) AdminBootstrap() bool {
	return c.Admin.Email != ""
}
