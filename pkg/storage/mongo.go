package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/spotlight/pkg/layout"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "spotlight"
	DefaultMongoCollection = "snapshots"
)

// MongoConfig configures a MongoDB-backed store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	// TTL, when positive, installs a TTL index on created_at so the server
	// expires old snapshots on its own.
	TTL time.Duration
}

// MongoStore keeps snapshots in a MongoDB collection with _id set to the
// snapshot ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}
	if cfg.TTL > 0 {
		idx := mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(cfg.TTL / time.Second)),
		}
		if _, err := s.coll.Indexes().CreateOne(ctx, idx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("create ttl index: %w", err)
		}
	}
	return s, nil
}

func (s *MongoStore) Save(ctx context.Context, l *layout.Layout) (string, error) {
	if err := prepare(l); err != nil {
		return "", err
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, opts); err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	return l.ID, nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (*layout.Layout, error) {
	var l layout.Layout
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &l, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Cleanup(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	res, err := s.coll.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("cleanup snapshots: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
