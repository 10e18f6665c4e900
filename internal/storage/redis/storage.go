package redis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/lfg/internal/storage/document"
)

// Blobs keeps each document as a single Redis string
type Blobs struct {
	client *redis.Client
	cfg    Config
}

// Ensure Blobs implements the interface
var _ document.Blobs = (*Blobs)(nil)

// New connects to Redis and returns a document Storage on top of it
func New(cfg Config, logger *slog.Logger) (*document.Storage, *Blobs, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	blobs := NewWithClient(client, cfg)
	return document.NewStorage(blobs, logger), blobs, nil
}

// NewWithClient creates Redis blobs with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Blobs {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Blobs{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (b *Blobs) Close() error {
	return b.client.Close()
}

func (b *Blobs) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, documentKey(b.cfg.KeyPrefix, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, document.ErrBlobNotFound
	}
	return data, err
}

func (b *Blobs) Write(ctx context.Context, key string, data []byte) error {
	return b.client.Set(ctx, documentKey(b.cfg.KeyPrefix, key), data, 0).Err()
}
