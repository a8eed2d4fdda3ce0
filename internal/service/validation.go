package service

import (
	"net"
	"net/mail"
	"net/url"
	"strings"
)

const (
	maxTargetURLLength = 2048
	minPasswordLength  = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordLength = 72
)

// NormalizeEmail trims whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a bare RFC 5322 address.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return ErrInvalidEmail
	}
	at := strings.LastIndexByte(email, '@')
	if !strings.Contains(email[at+1:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces length bounds.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return ErrInvalidPassword
	}
	return nil
}

// ValidateTargetURL checks that raw is an absolute http(s) URL with a
// plausible host: a dotted domain, localhost, or an IP literal.
func ValidateTargetURL(raw string) error {
	if len(raw) > maxTargetURLLength {
		return ErrURLTooLong
	}
	if raw == "" || strings.TrimSpace(raw) != raw {
		return ErrInvalidURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return ErrInvalidURL
	}

	host := parsed.Hostname()
	if host == "" {
		return ErrInvalidURL
	}
	if host == "localhost" || net.ParseIP(host) != nil {
		return nil
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return ErrInvalidURL
	}
	for _, label := range labels {
		if !validHostLabel(label) {
			return ErrInvalidURL
		}
	}
	return nil
}

func validHostLabel(label string) bool {
	if label == "" || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}
