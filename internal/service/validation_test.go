package service

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTargetURL(t *testing.T) {
	longURL := "https://example.com/" + strings.Repeat("a", maxTargetURLLength)

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"http", "http://a.com", nil},
		{"https with path and query", "https://example.com/path?q=1#frag", nil},
		{"port", "http://example.com:8080/x", nil},
		{"localhost", "http://localhost:3000", nil},
		{"ipv4", "http://127.0.0.1/", nil},
		{"ipv6", "http://[::1]:8080/", nil},
		{"empty", "", ErrInvalidURL},
		{"not a url", "not-a-url", ErrInvalidURL},
		{"no scheme", "example.com", ErrInvalidURL},
		{"ftp", "ftp://example.com", ErrInvalidURL},
		{"javascript", "javascript:alert(1)", ErrInvalidURL},
		{"missing host", "https://", ErrInvalidURL},
		{"single label host", "http://intranet/", ErrInvalidURL},
		{"bad label", "http://exa_mple.com", ErrInvalidURL},
		{"leading hyphen", "http://-example.com", ErrInvalidURL},
		{"surrounding space", " http://a.com", ErrInvalidURL},
		{"too long", longURL, ErrURLTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTargetURL(tt.url)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateTargetURL(%q) = %v, want %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"alice@example.com", "a.b+tag@sub.example.org"}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{"", "alice", "alice@", "@example.com", "alice@example", "Alice <alice@example.com>"}
	for _, email := range invalid {
		if err := ValidateEmail(email); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("ValidateEmail(%q) = %v, want ErrInvalidEmail", email, err)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM\n"); got != "alice@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestValidationErrorsWrapSentinel(t *testing.T) {
	for _, err := range []error{ErrInvalidEmail, ErrInvalidPassword, ErrInvalidURL, ErrURLTooLong, ErrNoURLs, ErrTooManyURLs} {
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%v should wrap ErrValidation", err)
		}
	}
}
