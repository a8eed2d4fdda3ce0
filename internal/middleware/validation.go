package middleware

import (
	"errors"

	"github.com/snipurl/snipurl/internal/auth"
)

// Path parameter validation errors.
var (
	ErrKeyMissing = errors.New("key is required")
	ErrKeyInvalid = errors.New("key must be 6 alphanumeric characters")
)

// ValidateKeyParam checks a key or secret key taken from the URL path.
// Values that can never exist are rejected before reaching the store.
func ValidateKeyParam(key string) error {
	if key == "" {
		return ErrKeyMissing
	}
	if !auth.ValidateKeyFormat(key) {
		return ErrKeyInvalid
	}
	return nil
}
