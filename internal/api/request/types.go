package request

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcoot/lfg/internal/model"
)

// Rating accepts a JSON number or a numeric string
type Rating json.RawMessage

// UnmarshalJSON keeps the raw bytes; Parse validates them
func (r *Rating) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// Parse returns the rating, model.ErrMissingField when absent, or the
// model.ParseRating error
func (r Rating) Parse(field string) (int, error) {
	raw := strings.TrimSpace(string(r))
	if raw == "" || raw == "null" {
		return 0, fmt.Errorf("%w: %s", model.ErrMissingField, field)
	}
	raw = strings.Trim(raw, `"`)
	return model.ParseRating(raw)
}

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Rating   Rating `json:"rating"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateLobbyRequest is the request body for creating a lobby
type CreateLobbyRequest struct {
	Name           string `json:"name"`
	RequiredRating Rating `json:"required_rating"`
}
