package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snipurl/snipurl/internal/model"
	"github.com/snipurl/snipurl/internal/storage"
)

const shortURLColumns = `id, redir_target_url, key, secret_key, is_active, clicks, user_email, created_at`

// CreateShortURLs inserts a batch of short URLs in a single transaction.
// Either every row is written or none is.
func (r *Repository) CreateShortURLs(ctx context.Context, urls []*model.ShortURL) error {
	if len(urls) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO short_urls (` + shortURLColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, u := range urls {
		batch.Queue(query,
			u.ID,
			u.TargetURL,
			u.Key,
			u.SecretKey,
			u.IsActive,
			u.Clicks,
			u.OwnerEmail,
			u.CreatedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range urls {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			if isUniqueViolation(err) {
				return storage.ErrDuplicate
			}
			return fmt.Errorf("failed to insert short url: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit short urls: %w", err)
	}

	return nil
}

// ListShortURLsByOwner returns every short URL owned by the given email.
func (r *Repository) ListShortURLsByOwner(ctx context.Context, ownerEmail string) ([]*model.ShortURL, error) {
	query := `
		SELECT ` + shortURLColumns + `
		FROM short_urls
		WHERE user_email = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list short urls: %w", err)
	}
	defer rows.Close()

	urls := make([]*model.ShortURL, 0)
	for rows.Next() {
		u, err := scanShortURL(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan short url: %w", err)
		}
		urls = append(urls, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating short urls: %w", err)
	}

	return urls, nil
}

// SetShortURLActive sets is_active on the record matching both the secret key
// and the owner. A single UPDATE keeps the check and the write atomic.
func (r *Repository) SetShortURLActive(ctx context.Context, secretKey, ownerEmail string, active bool) (*model.ShortURL, error) {
	query := `
		UPDATE short_urls
		SET is_active = $3
		WHERE secret_key = $1 AND user_email = $2
		RETURNING ` + shortURLColumns

	u, err := scanShortURL(r.pool.QueryRow(ctx, query, secretKey, ownerEmail, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to set short url active: %w", err)
	}

	return u, nil
}

// ResolveShortURL increments the click counter of the active record matching
// key and returns the updated record. This is the hot path for redirects.
func (r *Repository) ResolveShortURL(ctx context.Context, key string) (*model.ShortURL, error) {
	query := `
		UPDATE short_urls
		SET clicks = clicks + 1
		WHERE key = $1 AND is_active
		RETURNING ` + shortURLColumns

	u, err := scanShortURL(r.pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve short url: %w", err)
	}

	return u, nil
}

// TakenKeys reports which of the candidate values are already in use as
// either a key or a secret key.
func (r *Repository) TakenKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	taken := make(map[string]bool)
	if len(keys) == 0 {
		return taken, nil
	}

	query := `
		SELECT key FROM short_urls WHERE key = ANY($1)
		UNION
		SELECT secret_key FROM short_urls WHERE secret_key = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to check taken keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan taken key: %w", err)
		}
		taken[k] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating taken keys: %w", err)
	}

	return taken, nil
}

// scanShortURL scans a single row into a ShortURL model.
func scanShortURL(row pgx.Row) (*model.ShortURL, error) {
	var u model.ShortURL
	err := row.Scan(
		&u.ID,
		&u.TargetURL,
		&u.Key,
		&u.SecretKey,
		&u.IsActive,
		&u.Clicks,
		&u.OwnerEmail,
		&u.CreatedAt,
	)
	return &u, err
}
