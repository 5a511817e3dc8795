package application

import (
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

// Input validation and sanitization utilities. Every failure wraps
// shared.ErrInvalidInput.

const (
	MaxUsernameLength = 20
	MinPasswordLength = 6
)

var (
	rxTLD      = regexp.MustCompile(`^[a-z\p{L}]{2,63}$`)
	rxLabel    = regexp.MustCompile(`^[a-z0-9\p{L}]([a-z0-9\p{L}-]*[a-z0-9\p{L}])?$`)
	allowedURL = map[string]bool{"http": true, "https": true, "ftp": true}
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", shared.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ValidateURL accepts http, https and ftp URLs, or a bare host with a TLD
// ("example.com/path"). Userinfo is allowed; it is scored, not rejected.
func ValidateURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return invalid("url is required")
	}
	if strings.ContainsAny(rawURL, " \t\r\n\x00") {
		return invalid("url must not contain whitespace")
	}

	candidate := rawURL
	if !strings.Contains(rawURL, "://") {
		candidate = "http://" + rawURL
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return invalid("invalid URL format")
	}
	if !allowedURL[strings.ToLower(u.Scheme)] {
		return invalid("invalid URL scheme %q (allowed: http, https, ftp)", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return invalid("url host is required")
	}
	if net.ParseIP(host) != nil {
		return nil
	}
	labels := strings.Split(strings.TrimSuffix(host, "."), ".")
	if len(labels) < 2 || !rxTLD.MatchString(labels[len(labels)-1]) {
		return invalid("url host %q has no valid top-level domain", host)
	}
	for _, l := range labels {
		if !rxLabel.MatchString(l) {
			return invalid("url host %q is malformed", host)
		}
	}
	return nil
}

// ValidateText rejects empty content and content over max runes (max <= 0
// means unbounded).
func ValidateText(field, text string, max int) error {
	if strings.TrimSpace(text) == "" {
		return invalid("%s is required", field)
	}
	if max > 0 && len([]rune(text)) > max {
		return invalid("%s must be at most %d characters", field, max)
	}
	return nil
}

func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return invalid("please include a valid email")
	}
	return nil
}

func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return invalid("username is required")
	}
	if len([]rune(username)) > MaxUsernameLength {
		return invalid("username cannot be more than %d characters", MaxUsernameLength)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return invalid("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateID checks store-assigned identifiers (UUIDs).
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return invalid("invalid id %q", id)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
