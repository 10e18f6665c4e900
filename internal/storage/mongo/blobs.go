// Package mongo keeps each document in a MongoDB collection keyed by name.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mcoot/lfg/internal/storage/document"
)

// CollectionName is the collection documents are stored in
const CollectionName = "documents"

type record struct {
	Name      string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Blobs stores documents as raw JSON strings so they round-trip unchanged
type Blobs struct {
	client *mongo.Client
	col    *mongo.Collection
}

var _ document.Blobs = (*Blobs)(nil)

// New connects to MongoDB and returns a document Storage
func New(ctx context.Context, uri, database string, logger *slog.Logger) (*document.Storage, *Blobs, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	blobs := NewBlobs(client, client.Database(database))
	return document.NewStorage(blobs, logger), blobs, nil
}

// NewBlobs wraps an existing database handle
func NewBlobs(client *mongo.Client, db *mongo.Database) *Blobs {
	return &Blobs{client: client, col: db.Collection(CollectionName)}
}

// Close disconnects the client
func (b *Blobs) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

func (b *Blobs) Read(ctx context.Context, key string) ([]byte, error) {
	var rec record
	err := b.col.FindOne(ctx, bson.M{"_id": key}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, document.ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(rec.Body), nil
}

func (b *Blobs) Write(ctx context.Context, key string, data []byte) error {
	rec := record{Name: key, Body: string(data), UpdatedAt: time.Now().UTC()}
	_, err := b.col.ReplaceOne(ctx, bson.M{"_id": key}, rec, options.Replace().SetUpsert(true))
	return err
}
