package model

import "errors"

// Common errors used across the application
var (
	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrRatingNotNumber  = errors.New("rating must be a number")
	ErrRatingOutOfRange = errors.New("rating must be between 0 and 4000")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrInvalidLobbyName = errors.New("lobby name must not contain '/' or be '.' or '..'")

	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Lobby errors
	ErrLobbyNotFound   = errors.New("lobby not found")
	ErrLobbyNameTaken  = errors.New("lobby name already exists")
	ErrAlreadyInLobby  = errors.New("already in a lobby")
	ErrNotInLobby      = errors.New("not a member of this lobby")
	ErrNotLeader       = errors.New("only the lobby leader can do this")
	ErrJoinRestricted  = errors.New("cannot join lobby")
	ErrSlotUnavailable = errors.New("slot unavailable")

	// Persistence errors
	ErrSchemaDrift = errors.New("stored document does not match schema")
)

// JoinRestrictedError explains why an account may not join a lobby
type JoinRestrictedError struct {
	Lobby  LobbyName
	Reason string
}

func (e *JoinRestrictedError) Error() string {
	return "cannot join " + string(e.Lobby) + ": " + e.Reason
}

// Is makes errors.Is(err, ErrJoinRestricted) match
func (e *JoinRestrictedError) Is(target error) bool {
	return target == ErrJoinRestricted
}
