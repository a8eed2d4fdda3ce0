package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/snipurl/snipurl/internal/auth"
	"github.com/snipurl/snipurl/internal/metrics"
	"github.com/snipurl/snipurl/internal/model"
	"github.com/snipurl/snipurl/internal/storage"
)

const (
	// maxKeyRetries bounds how many times colliding keys are regenerated.
	maxKeyRetries = 3
	// constructWorkers caps the goroutines building records for one batch.
	constructWorkers = 8
)

// URLStore is the persistence the shortener depends on.
type URLStore interface {
	CreateShortURLs(ctx context.Context, urls []*model.ShortURL) error
	ListShortURLsByOwner(ctx context.Context, ownerEmail string) ([]*model.ShortURL, error)
	SetShortURLActive(ctx context.Context, secretKey, ownerEmail string, active bool) (*model.ShortURL, error)
	ResolveShortURL(ctx context.Context, key string) (*model.ShortURL, error)
	TakenKeys(ctx context.Context, keys []string) (map[string]bool, error)
}

// ShortenerService handles short URL business logic.
type ShortenerService struct {
	store    URLStore
	baseURL  string
	maxBatch int
	metrics  metrics.Recorder
	logger   *slog.Logger

	newKey func() string
	now    func() time.Time
}

// NewShortenerService creates a new ShortenerService. maxBatch <= 0 means
// no limit on URLs per CreateURLs call.
func NewShortenerService(store URLStore, baseURL string, maxBatch int, recorder metrics.Recorder, logger *slog.Logger) *ShortenerService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ShortenerService{
		store:    store,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxBatch: maxBatch,
		metrics:  recorder,
		logger:   logger,
		newKey:   auth.GenerateKey,
		now:      time.Now,
	}
}

// CreateResult is the outcome of a batch creation.
type CreateResult struct {
	Created  []*model.ShortURL
	Rejected []string
}

// CreateURLs validates every target, builds a record for each valid one and
// persists them in a single batch write. Malformed targets are returned in
// Rejected and never abort the batch; a failed write fails the whole call.
func (s *ShortenerService) CreateURLs(ctx context.Context, targets []string, owner *model.User) (*CreateResult, error) {
	if len(targets) == 0 {
		return nil, ErrNoURLs
	}
	if s.maxBatch > 0 && len(targets) > s.maxBatch {
		return nil, ErrTooManyURLs
	}

	valid := make([]string, 0, len(targets))
	rejected := make([]string, 0)
	for _, target := range targets {
		if err := ValidateTargetURL(target); err != nil {
			s.logger.Warn("invalid url skipped",
				slog.String("url", target),
				slog.String("reason", err.Error()),
			)
			rejected = append(rejected, target)
			continue
		}
		valid = append(valid, target)
	}

	result := &CreateResult{
		Created:  make([]*model.ShortURL, 0, len(valid)),
		Rejected: rejected,
	}
	s.metrics.AddURLsRejected(len(rejected))

	if len(valid) == 0 {
		return result, nil
	}

	urls, err := s.buildShortURLs(ctx, valid, owner.Email)
	if err != nil {
		return nil, err
	}

	if err := s.assignUniqueKeys(ctx, urls); err != nil {
		return nil, err
	}

	if err := s.store.CreateShortURLs(ctx, urls); err != nil {
		return nil, fmt.Errorf("%w: create short urls: %v", ErrStorage, err)
	}

	s.metrics.AddURLsCreated(len(urls))
	result.Created = urls

	return result, nil
}

// buildShortURLs constructs one record per target concurrently. Records
// share no state; each worker writes only its own slot.
func (s *ShortenerService) buildShortURLs(ctx context.Context, targets []string, ownerEmail string) ([]*model.ShortURL, error) {
	urls := make([]*model.ShortURL, len(targets))
	createdAt := s.now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constructWorkers)

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			urls[i] = &model.ShortURL{
				ID:         ulid.Make().String(),
				TargetURL:  target,
				Key:        s.newKey(),
				SecretKey:  s.newKey(),
				IsActive:   true,
				Clicks:     0,
				OwnerEmail: ownerEmail,
				CreatedAt:  createdAt,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build short urls: %w", err)
	}

	return urls, nil
}

// assignUniqueKeys makes every key and secret key in the batch distinct from
// each other and from stored records, regenerating collisions.
func (s *ShortenerService) assignUniqueKeys(ctx context.Context, urls []*model.ShortURL) error {
	for attempt := 0; ; attempt++ {
		if err := s.dedupeBatch(urls); err != nil {
			return err
		}

		candidates := make([]string, 0, 2*len(urls))
		for _, u := range urls {
			candidates = append(candidates, u.Key, u.SecretKey)
		}

		taken, err := s.store.TakenKeys(ctx, candidates)
		if err != nil {
			return fmt.Errorf("%w: check taken keys: %v", ErrStorage, err)
		}
		if len(taken) == 0 {
			return nil
		}
		if attempt == maxKeyRetries {
			return fmt.Errorf("%w: keys still taken after %d attempts", ErrStorage, maxKeyRetries)
		}

		s.logger.Info("regenerating colliding keys",
			slog.Int("collisions", len(taken)),
			slog.Int("attempt", attempt+1),
		)

		for _, u := range urls {
			if taken[u.Key] {
				u.Key = s.newKey()
			}
			if taken[u.SecretKey] {
				u.SecretKey = s.newKey()
			}
		}
	}
}

// dedupeBatch regenerates any key that repeats within the batch.
func (s *ShortenerService) dedupeBatch(urls []*model.ShortURL) error {
	seen := make(map[string]bool, 2*len(urls))

	unique := func(key string) (string, error) {
		for i := 0; seen[key]; i++ {
			if i == maxKeyRetries {
				return "", fmt.Errorf("%w: duplicate keys within batch after %d attempts", ErrStorage, maxKeyRetries)
			}
			key = s.newKey()
		}
		seen[key] = true
		return key, nil
	}

	for _, u := range urls {
		key, err := unique(u.Key)
		if err != nil {
			return err
		}
		u.Key = key

		secret, err := unique(u.SecretKey)
		if err != nil {
			return err
		}
		u.SecretKey = secret
	}

	return nil
}

// ListURLs returns every short URL owned by owner, in storage order.
func (s *ShortenerService) ListURLs(ctx context.Context, owner *model.User) ([]*model.ShortURL, error) {
	urls, err := s.store.ListShortURLsByOwner(ctx, owner.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: list short urls: %v", ErrStorage, err)
	}
	return urls, nil
}

// SetActive sets is_active on the owner's record identified by secretKey.
// Missing and foreign records are both ErrNotFoundOrForbidden.
func (s *ShortenerService) SetActive(ctx context.Context, secretKey string, owner *model.User, active bool) (*model.ShortURL, error) {
	u, err := s.store.SetShortURLActive(ctx, secretKey, owner.Email, active)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, fmt.Errorf("%w: set active: %v", ErrStorage, err)
	}

	s.metrics.IncURLStatusChanged()

	return u, nil
}

// Resolve counts a click on the active record matching key and returns it.
// The increment and the lookup are one atomic store operation.
func (s *ShortenerService) Resolve(ctx context.Context, key string) (*model.ShortURL, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveRedirectDuration(time.Since(start))
	}()

	u, err := s.store.ResolveShortURL(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.metrics.IncRedirectMissed()
			return nil, ErrNotFoundOrInactive
		}
		return nil, fmt.Errorf("%w: resolve: %v", ErrStorage, err)
	}

	s.metrics.IncRedirectResolved()

	return u, nil
}

// ShortURL returns the public redirect URL for key.
func (s *ShortenerService) ShortURL(key string) string {
	return s.baseURL + "/" + key
}
