package entity

import (
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

var (
	nicknamePattern = regexp.MustCompile(`^[\p{L}\p{N}._-]{3,32}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)
)

// ValidateURL validates that rawURL is an absolute http(s) URL that does not
// point at a literal private or loopback address.
func ValidateURL(field, rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: field, Message: "URL is required"}
	}
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: field, Message: "malformed URL"}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: field, Message: "URL must use http or https scheme"}
	}
	if parsedURL.Host == "" {
		return &ValidationError{Field: field, Message: "URL must have a valid host"}
	}

	host := parsedURL.Hostname()
	if host == "localhost" {
		return &ValidationError{Field: field, Message: "url cannot point to private network"}
	}
	if ip := net.ParseIP(host); ip != nil && isPrivateIP(ip) {
		return &ValidationError{Field: field, Message: "url cannot point to private network"}
	}
	return nil
}

// ValidateEmail checks that s is a bare RFC 5322 address.
func ValidateEmail(field, s string) error {
	if s == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if len(s) > 254 {
		return &ValidationError{Field: field, Message: "must not exceed 254 characters"}
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@"):], ".") {
		return &ValidationError{Field: field, Message: "invalid email address"}
	}
	return nil
}

func requireLength(field, s string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	if n == 0 {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if n < minLen {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", minLen)}
	}
	if n > maxLen {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %d characters", maxLen)}
	}
	return nil
}

// maxLength rejects s when it is longer than maxLen characters. Empty is fine.
func maxLength(field, s string, maxLen int) error {
	if utf8.RuneCountInString(s) > maxLen {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %d characters", maxLen)}
	}
	return nil
}

// isPrivateIP checks if an IP address is loopback, link-local or in a
// private range.
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsPrivate() || ip.IsUnspecified() {
		return true
	}
	_, metadata, _ := net.ParseCIDR("169.254.0.0/16")
	return metadata.Contains(ip)
}
