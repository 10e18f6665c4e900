package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcoot/lfg/internal/model"
)

// Storage persists the two whole documents the application works with: the
// account directory and the lobby registry. Loads return an empty mapping when
// nothing has been stored yet; saves overwrite the whole document.
type Storage interface {
	LoadAccounts(ctx context.Context) (model.AccountDirectory, error)
	SaveAccounts(ctx context.Context, accounts model.AccountDirectory) error

	LoadLobbies(ctx context.Context) (model.LobbyRegistry, error)
	SaveLobbies(ctx context.Context, lobbies model.LobbyRegistry) error
}

// ErrUnavailable matches any failure of the backing store itself
var ErrUnavailable = errors.New("storage unavailable")

// Error wraps a backend failure with the operation that hit it
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnavailable) match
func (e *Error) Is(target error) bool {
	return target == ErrUnavailable
}

// Wrap returns nil for a nil err, otherwise an *Error for op
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
