// Package storage holds the errors and contracts shared by the store backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/snipurl/snipurl/internal/model"
)

// Errors returned by every store backend.
var (
	// ErrNotFound indicates no document or row matched the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a unique constraint (email, key, secret_key) was violated.
	ErrDuplicate = errors.New("duplicate record")
)

// Store is the full set of persistence operations the service needs.
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	CreateShortURLs(ctx context.Context, urls []*model.ShortURL) error
	ListShortURLsByOwner(ctx context.Context, ownerEmail string) ([]*model.ShortURL, error)
	SetShortURLActive(ctx context.Context, secretKey, ownerEmail string, active bool) (*model.ShortURL, error)
	ResolveShortURL(ctx context.Context, key string) (*model.ShortURL, error)
	TakenKeys(ctx context.Context, keys []string) (map[string]bool, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Backend identifies which store implementation a database URL selects.
type Backend string

const (
	BackendMongo    Backend = "mongo"
	BackendPostgres Backend = "postgres"
)

// BackendFor picks the backend from the URL scheme.
func BackendFor(databaseURL string) (Backend, error) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("parse database URL: %w", err)
	}

	switch strings.ToLower(parsed.Scheme) {
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database scheme %q", parsed.Scheme)
	}
}
