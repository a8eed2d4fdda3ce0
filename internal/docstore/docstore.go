// Package docstore provides the MongoDB store backend.
//
// Documents are decoded into typed model records on every read; nothing
// above this package sees raw bson.
package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/snipurl/snipurl/internal/storage"
)

// Collection names.
const (
	UsersCollection = "users"
	URLsCollection  = "urls"
)

const connectTimeout = 10 * time.Second

// Store provides document database access methods.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	users  *mongo.Collection
	urls   *mongo.Collection
}

var _ storage.Store = (*Store)(nil)

// New connects to MongoDB and verifies the connection.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetMinPoolSize(2)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(dbName)
	return &Store{
		client: client,
		db:     db,
		users:  db.Collection(UsersCollection),
		urls:   db.Collection(URLsCollection),
	}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the shared client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Database returns the underlying database handle.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Migrate creates the unique indexes the service relies on.
// CreateMany is a no-op for indexes that already exist with the same spec.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = s.urls.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_key"),
		},
		{
			Keys:    bson.D{{Key: "secret_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_secret_key"),
		},
		{
			Keys:    bson.D{{Key: "user_email", Value: 1}},
			Options: options.Index().SetName("idx_user_email"),
		},
	})
	if err != nil {
		return fmt.Errorf("create url indexes: %w", err)
	}

	return nil
}
