//go:build integration

package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/snipurl/snipurl/internal/model"
	"github.com/snipurl/snipurl/internal/storage"
	"github.com/snipurl/snipurl/internal/testutil"
)

func TestIntegrationDocstore_Users(t *testing.T) {
	ctx, store := newTestStore(t)

	user := testutil.NewTestUser(t, "alice@example.com")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", got.ID, user.ID)
	}

	if err := store.CreateUser(ctx, testutil.NewTestUser(t, "alice@example.com")); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	if _, err := store.GetUserByEmail(ctx, "ghost@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestIntegrationDocstore_ShortURLLifecycle(t *testing.T) {
	ctx, store := newTestStore(t)

	mine := testutil.NewTestShortURL(t, "owner@example.com")
	theirs := testutil.NewTestShortURL(t, "other@example.com")
	if err := store.CreateShortURLs(ctx, []*model.ShortURL{mine, theirs}); err != nil {
		t.Fatalf("CreateShortURLs failed: %v", err)
	}

	list, err := store.ListShortURLsByOwner(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("ListShortURLsByOwner failed: %v", err)
	}
	if len(list) != 1 || list[0].Key != mine.Key {
		t.Fatalf("unexpected list: %+v", list)
	}

	taken, err := store.TakenKeys(ctx, []string{mine.Key, theirs.SecretKey, "zzzzzz"})
	if err != nil {
		t.Fatalf("TakenKeys failed: %v", err)
	}
	if !taken[mine.Key] || !taken[theirs.SecretKey] || taken["zzzzzz"] {
		t.Errorf("unexpected taken set: %v", taken)
	}

	if _, err := store.SetShortURLActive(ctx, mine.SecretKey, "other@example.com", false); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}

	const visitors = 20
	var wg sync.WaitGroup
	for i := 0; i < visitors; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.ResolveShortURL(ctx, mine.Key); err != nil {
				t.Errorf("ResolveShortURL failed: %v", err)
			}
		}()
	}
	wg.Wait()

	updated, err := store.SetShortURLActive(ctx, mine.SecretKey, "owner@example.com", false)
	if err != nil {
		t.Fatalf("SetShortURLActive failed: %v", err)
	}
	if updated.IsActive || updated.Clicks != visitors {
		t.Fatalf("expected inactive record with %d clicks, got %+v", visitors, updated)
	}

	if _, err := store.ResolveShortURL(ctx, mine.Key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected inactive record to be unresolvable, got %v", err)
	}
}

func newTestStore(t *testing.T) (context.Context, *Store) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	uri := testutil.RequireEnv(t, "MONGO_TEST_URL")
	dbName := fmt.Sprintf("snipurl_test_%d", time.Now().UnixNano())

	store, err := New(ctx, uri, dbName)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Database().Drop(context.Background())
		_ = store.Close(context.Background())
	})

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return ctx, store
}
