//go:build integration

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/snipurl/snipurl/internal/model"
	"github.com/snipurl/snipurl/internal/storage"
	"github.com/snipurl/snipurl/internal/testutil"
)

func TestIntegrationRepository_CreateAndGetUser(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := testutil.NewTestUser(t, "alice@example.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("password hash mismatch: got %q, want %q", got.PasswordHash, user.PasswordHash)
	}

	dup := testutil.NewTestUser(t, "alice@example.com")
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIntegrationRepository_BatchIsAllOrNothing(t *testing.T) {
	ctx, repo := newTestEnv(t)

	first := testutil.NewTestShortURL(t, "owner@example.com")
	if err := repo.CreateShortURLs(ctx, []*model.ShortURL{first}); err != nil {
		t.Fatalf("CreateShortURLs failed: %v", err)
	}

	fresh := testutil.NewTestShortURL(t, "owner@example.com")
	clash := testutil.NewTestShortURL(t, "owner@example.com")
	clash.Key = first.Key

	err := repo.CreateShortURLs(ctx, []*model.ShortURL{fresh, clash})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	taken, err := repo.TakenKeys(ctx, []string{fresh.Key, first.Key, first.SecretKey})
	if err != nil {
		t.Fatalf("TakenKeys failed: %v", err)
	}
	if taken[fresh.Key] {
		t.Error("rolled back batch should not leave rows behind")
	}
	if !taken[first.Key] || !taken[first.SecretKey] {
		t.Errorf("expected existing key and secret key to be taken, got %v", taken)
	}
}

func TestIntegrationRepository_ListByOwner(t *testing.T) {
	ctx, repo := newTestEnv(t)

	mine := []*model.ShortURL{
		testutil.NewTestShortURL(t, "a@example.com"),
		testutil.NewTestShortURL(t, "a@example.com"),
	}
	theirs := testutil.NewTestShortURL(t, "b@example.com")

	if err := repo.CreateShortURLs(ctx, append(mine, theirs)); err != nil {
		t.Fatalf("CreateShortURLs failed: %v", err)
	}

	got, err := repo.ListShortURLsByOwner(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("ListShortURLsByOwner failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(got))
	}
	for _, u := range got {
		if u.OwnerEmail != "a@example.com" {
			t.Errorf("unexpected owner %q", u.OwnerEmail)
		}
	}
}

func TestIntegrationRepository_SetActiveScopedToOwner(t *testing.T) {
	ctx, repo := newTestEnv(t)

	u := testutil.NewTestShortURL(t, "owner@example.com")
	if err := repo.CreateShortURLs(ctx, []*model.ShortURL{u}); err != nil {
		t.Fatalf("CreateShortURLs failed: %v", err)
	}

	if _, err := repo.SetShortURLActive(ctx, u.SecretKey, "intruder@example.com", false); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}

	updated, err := repo.SetShortURLActive(ctx, u.SecretKey, "owner@example.com", false)
	if err != nil {
		t.Fatalf("SetShortURLActive failed: %v", err)
	}
	if updated.IsActive {
		t.Error("expected record to be inactive")
	}

	if _, err := repo.ResolveShortURL(ctx, u.Key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected inactive record to be unresolvable, got %v", err)
	}
}

func TestIntegrationRepository_ResolveConcurrentClicks(t *testing.T) {
	ctx, repo := newTestEnv(t)

	u := testutil.NewTestShortURL(t, "owner@example.com")
	if err := repo.CreateShortURLs(ctx, []*model.ShortURL{u}); err != nil {
		t.Fatalf("CreateShortURLs failed: %v", err)
	}

	const visitors = 25
	var wg sync.WaitGroup
	for i := 0; i < visitors; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ResolveShortURL(ctx, u.Key); err != nil {
				t.Errorf("ResolveShortURL failed: %v", err)
			}
		}()
	}
	wg.Wait()

	list, err := repo.ListShortURLsByOwner(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("ListShortURLsByOwner failed: %v", err)
	}
	if len(list) != 1 || list[0].Clicks != visitors {
		t.Fatalf("expected %d clicks, got %+v", visitors, list)
	}
}

func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	dbURL := testutil.RequireEnv(t, "POSTGRES_TEST_URL")
	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close(context.Background()) })

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() { _ = unlock() })

	if _, err := repo.Pool().Exec(ctx, "DROP TABLE IF EXISTS short_urls, users"); err != nil {
		t.Fatalf("drop tables: %v", err)
	}
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return ctx, repo
}
