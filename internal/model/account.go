package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Username identifies an account. Usernames are case-sensitive.
type Username string

// Role is the combat role an account plays in a lobby
type Role string

const (
	RoleTank   Role = "Tank"
	RoleHealer Role = "Healer"
	RoleDPS    Role = "DPS"
)

// Roles lists every valid role in slot order
var Roles = []Role{RoleTank, RoleHealer, RoleDPS}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleTank, RoleHealer, RoleDPS:
		return true
	}
	return false
}

// ParseRole converts user input into a Role
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Rating bounds, inclusive
const (
	MinRating = 0
	MaxRating = 4000
)

// ValidateRating checks that a rating lies within [MinRating, MaxRating]
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: %d", ErrRatingOutOfRange, rating)
	}
	return nil
}

// ParseRating parses and range-checks a rating supplied as text
func ParseRating(s string) (int, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrRatingNotNumber, s)
	}
	if err := ValidateRating(rating); err != nil {
		return 0, err
	}
	return rating, nil
}

// Account is a registered user. Accounts are never mutated after registration.
type Account struct {
	Username     Username
	PasswordHash string
	Email        string
	Role         Role
	Rating       int
	CreatedAt    time.Time
}

// AccountDirectory maps usernames to accounts
type AccountDirectory map[Username]Account

// Clone returns an independent copy of the directory
func (d AccountDirectory) Clone() AccountDirectory {
	out := make(AccountDirectory, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
