package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/snipurl/snipurl/internal/model"
	"github.com/snipurl/snipurl/internal/storage"
)

// CreateShortURLs writes the batch with a single InsertMany.
func (s *Store) CreateShortURLs(ctx context.Context, urls []*model.ShortURL) error {
	if len(urls) == 0 {
		return nil
	}

	docs := make([]interface{}, len(urls))
	for i, u := range urls {
		docs[i] = u
	}

	if _, err := s.urls.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("failed to insert short urls: %w", err)
	}

	return nil
}

// ListShortURLsByOwner returns every short URL owned by the given email,
// in storage iteration order.
func (s *Store) ListShortURLsByOwner(ctx context.Context, ownerEmail string) ([]*model.ShortURL, error) {
	cursor, err := s.urls.Find(ctx, bson.M{"user_email": ownerEmail})
	if err != nil {
		return nil, fmt.Errorf("failed to list short urls: %w", err)
	}
	defer cursor.Close(ctx)

	urls := make([]*model.ShortURL, 0)
	for cursor.Next(ctx) {
		var u model.ShortURL
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("failed to decode short url: %w", err)
		}
		urls = append(urls, &u)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating short urls: %w", err)
	}

	return urls, nil
}

// SetShortURLActive sets is_active on the document matching both the secret
// key and the owner, atomically.
func (s *Store) SetShortURLActive(ctx context.Context, secretKey, ownerEmail string, active bool) (*model.ShortURL, error) {
	filter := bson.M{"secret_key": secretKey, "user_email": ownerEmail}
	update := bson.M{"$set": bson.M{"is_active": active}}

	return s.findOneAndUpdate(ctx, filter, update)
}

// ResolveShortURL increments clicks on the active document matching key.
func (s *Store) ResolveShortURL(ctx context.Context, key string) (*model.ShortURL, error) {
	filter := bson.M{"key": key, "is_active": true}
	update := bson.M{"$inc": bson.M{"clicks": 1}}

	return s.findOneAndUpdate(ctx, filter, update)
}

// TakenKeys reports which candidate values already exist as key or secret_key.
func (s *Store) TakenKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	taken := make(map[string]bool)
	if len(keys) == 0 {
		return taken, nil
	}

	filter := bson.M{"$or": bson.A{
		bson.M{"key": bson.M{"$in": keys}},
		bson.M{"secret_key": bson.M{"$in": keys}},
	}}
	projection := options.Find().SetProjection(bson.M{"key": 1, "secret_key": 1})

	cursor, err := s.urls.Find(ctx, filter, projection)
	if err != nil {
		return nil, fmt.Errorf("failed to check taken keys: %w", err)
	}
	defer cursor.Close(ctx)

	candidates := make(map[string]bool, len(keys))
	for _, k := range keys {
		candidates[k] = true
	}

	for cursor.Next(ctx) {
		var doc struct {
			Key       string `bson:"key"`
			SecretKey string `bson:"secret_key"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode taken key: %w", err)
		}
		if candidates[doc.Key] {
			taken[doc.Key] = true
		}
		if candidates[doc.SecretKey] {
			taken[doc.SecretKey] = true
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating taken keys: %w", err)
	}

	return taken, nil
}

func (s *Store) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*model.ShortURL, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u model.ShortURL
	err := s.urls.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update short url: %w", err)
	}

	return &u, nil
}
