// Package jsonfile stores each document as a JSON file in a data directory.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mcoot/lfg/internal/storage/document"
)

// DefaultDir is where documents are kept when no directory is configured
const DefaultDir = "data"

// Blobs reads and writes files named by document key inside a directory
type Blobs struct {
	dir string
}

var _ document.Blobs = (*Blobs)(nil)

// NewBlobs creates the directory if needed
func NewBlobs(dir string) (*Blobs, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Blobs{dir: dir}, nil
}

// New returns a document Storage backed by files in dir
func New(dir string, logger *slog.Logger) (*document.Storage, error) {
	blobs, err := NewBlobs(dir)
	if err != nil {
		return nil, err
	}
	return document.NewStorage(blobs, logger), nil
}

// Path returns the file backing key
func (b *Blobs) Path(key string) string {
	return filepath.Join(b.dir, key)
}

func (b *Blobs) Read(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, document.ErrBlobNotFound
	}
	return data, err
}

// Write replaces the file atomically via a temp file and rename
func (b *Blobs) Write(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), b.Path(key))
}
