package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"brazucas-cork/internal/domain/entity"
)

// SecurityConfig is the account and token policy.
type SecurityConfig struct {
	Security struct {
		Password struct {
			MinLength     int      `yaml:"min_length"`
			WeakPasswords []string `yaml:"weak_passwords"`
		} `yaml:"password"`
		Registration struct {
			// AllowedRoles are the roles a user may pick when signing up.
			AllowedRoles []string `yaml:"allowed_roles"`
		} `yaml:"registration"`
		JWT struct {
			ExpiryHours int    `yaml:"expiry_hours"`
			Issuer      string `yaml:"issuer"`
		} `yaml:"jwt"`
	} `yaml:"security"`
}

// DefaultSecurityConfig is used when no policy file exists.
func DefaultSecurityConfig() *SecurityConfig {
	c := &SecurityConfig{}
	c.Security.Password.MinLength = 10
	c.Security.Password.WeakPasswords = []string{"password", "12345678", "qwerty", "brazucas", "corkcork"}
	c.Security.Registration.AllowedRoles = []string{string(entity.RoleNormal), string(entity.RoleAdvertiser)}
	c.Security.JWT.ExpiryHours = 24
	c.Security.JWT.Issuer = "brazucas-cork"
	return c
}

// LoadSecurityConfig reads the policy at path. A missing file yields the
// defaults; a malformed or invalid one is an error.
func LoadSecurityConfig(path string) (*SecurityConfig, error) {
	// #nosec G304 -- path comes from the process environment, not user input
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSecurityConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultSecurityConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateSecurityConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func validateSecurityConfig(config *SecurityConfig) error {
	if config.Security.Password.MinLength < 8 {
		return fmt.Errorf("min_length must be at least 8")
	}

	if len(config.Security.Registration.AllowedRoles) == 0 {
		return fmt.Errorf("allowed_roles must not be empty")
	}
	for _, r := range config.Security.Registration.AllowedRoles {
		role, err := entity.ParseRole(r)
		if err != nil {
			return fmt.Errorf("allowed_roles: %q is not a role", r)
		}
		if role == entity.RoleAdmin {
			return fmt.Errorf("allowed_roles must not include admin")
		}
	}

	if config.Security.JWT.ExpiryHours <= 0 {
		return fmt.Errorf("jwt expiry_hours must be positive")
	}

	return nil
}

// MinPasswordLength returns the minimum password length.
func (c *SecurityConfig) MinPasswordLength() int {
	return c.Security.Password.MinLength
}

// WeakPasswords returns the rejected passwords.
func (c *SecurityConfig) WeakPasswords() []string {
	return c.Security.Password.WeakPasswords
}

// SelfRegistrationRoles returns the roles a user may choose at sign-up.
func (c *SecurityConfig) SelfRegistrationRoles() []entity.Role {
	out := make([]entity.Role, 0, len(c.Security.Registration.AllowedRoles))
	for _, r := range c.Security.Registration.AllowedRoles {
		if role, err := entity.ParseRole(r); err == nil {
			out = append(out, role)
		}
	}
	return out
}

// TokenTTL returns the lifetime of issued tokens.
func (c *SecurityConfig) TokenTTL() time.Duration {
	return time.Duration(c.Security.JWT.ExpiryHours) * time.Hour
}

// TokenIssuer returns the iss claim of issued tokens.
func (c *SecurityConfig) TokenIssuer() string {
	return c.Security.JWT.Issuer
}
