package memory

import (
	"context"
	"sync"

	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts model.AccountDirectory
	lobbies  model.LobbyRegistry
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts: make(model.AccountDirectory),
		lobbies:  make(model.LobbyRegistry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Copies go in and out so callers never share a map with the store.

func (s *Storage) LoadAccounts(ctx context.Context) (model.AccountDirectory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts.Clone(), nil
}

func (s *Storage) SaveAccounts(ctx context.Context, accounts model.AccountDirectory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts.Clone()
	return nil
}

func (s *Storage) LoadLobbies(ctx context.Context) (model.LobbyRegistry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lobbies.Clone(), nil
}

func (s *Storage) SaveLobbies(ctx context.Context, lobbies model.LobbyRegistry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies = lobbies.Clone()
	return nil
}
