package document

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/storage"
)

// ErrBlobNotFound is returned by Blobs.Read when nothing is stored at key
var ErrBlobNotFound = errors.New("blob not found")

// Blobs is the byte-level backend a document Storage writes through
type Blobs interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Storage implements storage.Storage on top of a Blobs backend
type Storage struct {
	blobs  Blobs
	logger *slog.Logger
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// NewStorage creates a document Storage
func NewStorage(blobs Blobs, logger *slog.Logger) *Storage {
	return &Storage{
		blobs:  blobs,
		logger: logger.With(slog.String("component", "document_storage")),
	}
}

func (s *Storage) LoadAccounts(ctx context.Context) (model.AccountDirectory, error) {
	data, err := s.read(ctx, AccountsKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return model.AccountDirectory{}, nil
	}

	accounts, err := DecodeAccounts(data)
	if s.tolerate(AccountsKey, err) {
		return model.AccountDirectory{}, nil
	}
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Storage) SaveAccounts(ctx context.Context, accounts model.AccountDirectory) error {
	data, err := EncodeAccounts(accounts)
	if err != nil {
		return err
	}
	return storage.Wrap("save accounts", s.blobs.Write(ctx, AccountsKey, data))
}

func (s *Storage) LoadLobbies(ctx context.Context) (model.LobbyRegistry, error) {
	data, err := s.read(ctx, LobbiesKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return model.LobbyRegistry{}, nil
	}

	lobbies, err := DecodeLobbies(data)
	if s.tolerate(LobbiesKey, err) {
		return model.LobbyRegistry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return lobbies, nil
}

func (s *Storage) SaveLobbies(ctx context.Context, lobbies model.LobbyRegistry) error {
	data, err := EncodeLobbies(lobbies)
	if err != nil {
		return err
	}
	return storage.Wrap("save lobbies", s.blobs.Write(ctx, LobbiesKey, data))
}

// read returns nil data and nil error when the blob does not exist
func (s *Storage) read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.blobs.Read(ctx, key)
	if errors.Is(err, ErrBlobNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storage.Wrap("load "+key, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// tolerate reports whether a decode error means "start empty". Malformed
// JSON is logged and treated as an empty document.
func (s *Storage) tolerate(key string, err error) bool {
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		return false
	}
	s.logger.Warn("ignoring malformed document",
		slog.String("key", key),
		slog.String("error", err.Error()))
	return true
}
