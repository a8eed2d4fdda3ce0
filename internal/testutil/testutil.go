package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/snipurl/snipurl/internal/auth"
	"github.com/snipurl/snipurl/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// TestPassword is the plaintext behind every NewTestUser hash.
const TestPassword = "password123"

// NewTestUser creates a user with the given email whose password is TestPassword.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash test password: %v", err)
	}
	return &model.User{
		ID:           ulid.Make().String(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
}

// NewTestShortURL creates an active short URL owned by ownerEmail with
// freshly generated keys.
func NewTestShortURL(t testing.TB, ownerEmail string) *model.ShortURL {
	t.Helper()
	key := auth.GenerateKey()
	return &model.ShortURL{
		ID:         ulid.Make().String(),
		TargetURL:  "https://example.com/" + key,
		Key:        key,
		SecretKey:  auth.GenerateKey(),
		IsActive:   true,
		OwnerEmail: ownerEmail,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
}
