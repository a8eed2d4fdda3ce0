package testutil

import (
	"context"
	"sync"

	"github.com/snipurl/snipurl/internal/model"
	"github.com/snipurl/snipurl/internal/storage"
)

// MemStore is an in-memory storage.Store for unit tests.
// All operations are serialized by a single mutex.
type MemStore struct {
	mu    sync.Mutex
	users map[string]*model.User
	urls  []*model.ShortURL

	// CreateErr, when set, is returned by CreateShortURLs without writing.
	CreateErr error
	// PingErr is returned by Ping.
	PingErr error
	// Taken marks values TakenKeys reports as taken in addition to stored keys.
	Taken map[string]bool

	createCalls int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		users: make(map[string]*model.User),
		Taken: make(map[string]bool),
	}
}

// CreateUser stores a copy of user; the email must be unused.
func (m *MemStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Email]; ok {
		return storage.ErrDuplicate
	}
	u := *user
	m.users[user.Email] = &u
	return nil
}

// GetUserByEmail returns a copy of the stored user.
func (m *MemStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// DeleteUser removes a user. Used to simulate a deleted account.
func (m *MemStore) DeleteUser(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, email)
}

// CreateShortURLs stores the batch atomically. Any key or secret_key that
// collides with a stored record aborts the whole batch.
func (m *MemStore) CreateShortURLs(_ context.Context, urls []*model.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}

	seen := make(map[string]bool)
	for _, u := range m.urls {
		seen["k:"+u.Key] = true
		seen["s:"+u.SecretKey] = true
	}
	for _, u := range urls {
		if seen["k:"+u.Key] || seen["s:"+u.SecretKey] {
			return storage.ErrDuplicate
		}
		seen["k:"+u.Key] = true
		seen["s:"+u.SecretKey] = true
	}

	for _, u := range urls {
		cp := *u
		m.urls = append(m.urls, &cp)
	}
	return nil
}

// ListShortURLsByOwner returns copies in insertion order.
func (m *MemStore) ListShortURLsByOwner(_ context.Context, ownerEmail string) ([]*model.ShortURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.ShortURL, 0)
	for _, u := range m.urls {
		if u.OwnedBy(ownerEmail) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

// SetShortURLActive updates the record matching both secretKey and owner.
func (m *MemStore) SetShortURLActive(_ context.Context, secretKey, ownerEmail string, active bool) (*model.ShortURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.urls {
		if u.SecretKey == secretKey && u.OwnedBy(ownerEmail) {
			u.IsActive = active
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ResolveShortURL increments clicks on the active record matching key.
func (m *MemStore) ResolveShortURL(_ context.Context, key string) (*model.ShortURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.urls {
		if u.Key == key && u.CanRedirect() {
			u.Clicks++
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

// TakenKeys reports candidates that match a stored key, secret_key or Taken entry.
func (m *MemStore) TakenKeys(_ context.Context, keys []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	taken := make(map[string]bool)
	for _, k := range keys {
		if m.Taken[k] {
			taken[k] = true
			continue
		}
		for _, u := range m.urls {
			if u.Key == k || u.SecretKey == k {
				taken[k] = true
				break
			}
		}
	}
	return taken, nil
}

// Migrate is a no-op.
func (m *MemStore) Migrate(context.Context) error { return nil }

// Ping returns PingErr.
func (m *MemStore) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PingErr
}

// Close is a no-op.
func (m *MemStore) Close(context.Context) error { return nil }

// URLs returns copies of every stored short URL in insertion order.
func (m *MemStore) URLs() []*model.ShortURL {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.ShortURL, len(m.urls))
	for i, u := range m.urls {
		cp := *u
		out[i] = &cp
	}
	return out
}

// CreateCalls returns how many times CreateShortURLs was invoked.
func (m *MemStore) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

var _ storage.Store = (*MemStore)(nil)
