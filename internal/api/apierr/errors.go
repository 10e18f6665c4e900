package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/services/auth"
	"github.com/mcoot/lfg/internal/storage"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidRole        = "INVALID_ROLE"
	CodeRatingOutOfRange   = "RATING_OUT_OF_RANGE"
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeInvalidLobbyName   = "INVALID_LOBBY_NAME"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotLeader          = "NOT_LEADER"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeLobbyNotFound      = "LOBBY_NOT_FOUND"
	CodeUsernameTaken      = "USERNAME_TAKEN"
	CodeLobbyNameTaken     = "LOBBY_NAME_TAKEN"
	CodeAlreadyInLobby     = "ALREADY_IN_LOBBY"
	CodeNotInLobby         = "NOT_IN_LOBBY"
	CodeJoinRestricted     = "JOIN_RESTRICTED"
	CodeSlotUnavailable    = "SLOT_UNAVAILABLE"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var restricted *model.JoinRestrictedError
	if errors.As(err, &restricted) {
		return &httpError{http.StatusConflict, APIError{CodeJoinRestricted, restricted.Reason}}
	}

	switch {
	// Validation
	case errors.Is(err, model.ErrMissingField), errors.Is(err, model.ErrRatingNotNumber),
		errors.Is(err, model.ErrPasswordTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case errors.Is(err, model.ErrInvalidRole):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRole, err.Error()}}
	case errors.Is(err, model.ErrRatingOutOfRange):
		return &httpError{http.StatusBadRequest, APIError{CodeRatingOutOfRange, err.Error()}}
	case errors.Is(err, model.ErrInvalidEmail):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidEmail, err.Error()}}
	case errors.Is(err, model.ErrInvalidLobbyName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidLobbyName, err.Error()}}

	// Auth
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, model.ErrNotLeader):
		return &httpError{http.StatusForbidden, APIError{CodeNotLeader, "Only the lobby leader can perform this action"}}

	// Lookups
	case errors.Is(err, model.ErrAccountNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAccountNotFound, "Account not found"}}
	case errors.Is(err, model.ErrLobbyNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeLobbyNotFound, "Lobby not found"}}

	// Conflicts
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{CodeUsernameTaken, "Username already exists"}}
	case errors.Is(err, model.ErrLobbyNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeLobbyNameTaken, "Lobby name already exists"}}
	case errors.Is(err, model.ErrAlreadyInLobby):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInLobby, "You are already in a lobby"}}
	case errors.Is(err, model.ErrNotInLobby):
		return &httpError{http.StatusConflict, APIError{CodeNotInLobby, "You are not in this lobby"}}
	case errors.Is(err, model.ErrSlotUnavailable):
		return &httpError{http.StatusConflict, APIError{CodeSlotUnavailable, "No open slot for your role"}}

	case errors.Is(err, storage.ErrUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStorageUnavailable, "Storage is unavailable"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
