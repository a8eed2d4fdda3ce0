// Package service provides business logic for the application.
package service

import "errors"

// Service errors.
var (
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("could not validate credentials")
	ErrNotFoundOrForbidden = errors.New("short url not found")
	ErrNotFoundOrInactive  = errors.New("short url not found or inactive")
	ErrStorage             = errors.New("storage error")
)

// Validation errors. All of them wrap ErrValidation.
var (
	ErrValidation      = errors.New("validation failed")
	ErrInvalidEmail    = validationError("invalid email address")
	ErrInvalidPassword = validationError("password must be between 8 and 72 bytes")
	ErrInvalidURL      = validationError("invalid URL")
	ErrURLTooLong      = validationError("URL exceeds maximum length")
	ErrNoURLs          = validationError("at least one URL is required")
	ErrTooManyURLs     = validationError("too many URLs in one request")
)

type validationErr struct {
	msg string
}

func validationError(msg string) error {
	return &validationErr{msg: msg}
}

func (e *validationErr) Error() string { return e.msg }

func (e *validationErr) Unwrap() error { return ErrValidation }
