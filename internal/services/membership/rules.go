// Package membership holds the pure rules that decide who may sit in which
// lobby slot. Nothing here touches storage.
package membership

import (
	"fmt"
	"strings"
	"time"

	"github.com/mcoot/lfg/internal/model"
)

// Restriction reasons, in the order JoinRestrictionReason checks them
const (
	ReasonRatingTooLow = "Rating too low"
	ReasonInvalidRole  = "Invalid role"
	ReasonDPSFull      = "DPS slots full"
	ReasonUnknown      = "Unknown reason"
)

// CanJoin reports whether the account meets the rating requirement and has an
// open slot for its role
func CanJoin(account model.Account, lobby model.Lobby) bool {
	if !account.Role.Valid() {
		return false
	}
	return account.Rating >= lobby.RequiredRating && lobby.Members.HasFreeSlot(account.Role)
}

// IsMember reports whether the account occupies any slot in the lobby
func IsMember(account model.Account, lobby model.Lobby) bool {
	return lobby.Members.Holds(account.Username)
}

// JoinRestrictionReason explains why CanJoin is false
func JoinRestrictionReason(account model.Account, lobby model.Lobby) string {
	if account.Rating < lobby.RequiredRating {
		return ReasonRatingTooLow
	}
	if !account.Role.Valid() {
		return ReasonInvalidRole
	}
	if !lobby.Members.HasFreeSlot(account.Role) {
		if account.Role == model.RoleDPS {
			return ReasonDPSFull
		}
		return fmt.Sprintf("%s slot taken", account.Role)
	}
	return ReasonUnknown
}

// IsInAnyLobby reports whether the account holds a slot anywhere
func IsInAnyLobby(account model.Account, registry model.LobbyRegistry) bool {
	for _, l := range registry {
		if IsMember(account, l) {
			return true
		}
	}
	return false
}

// LobbyOf returns the lobby the account sits in, if any
func LobbyOf(account model.Account, registry model.LobbyRegistry) (model.Lobby, bool) {
	for _, l := range registry.Sorted() {
		if IsMember(account, l) {
			return l, true
		}
	}
	return model.Lobby{}, false
}

// Join seats the account in the first open slot for its role. The lobby is
// left untouched on error.
func Join(account model.Account, lobby *model.Lobby) error {
	return lobby.Members.Assign(account.Role, account.Username)
}

// Leave clears exactly one slot held by the account
func Leave(account model.Account, lobby *model.Lobby) error {
	if !lobby.Members.Clear(account.Username) {
		return fmt.Errorf("%w: %s in %s", model.ErrNotInLobby, account.Username, lobby.Name)
	}
	return nil
}

// NewLobby builds a lobby led by account with the creator already seated
func NewLobby(account model.Account, name string, requiredRating int, now time.Time) (model.Lobby, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Lobby{}, fmt.Errorf("%w: lobby name", model.ErrMissingField)
	}
	// Names become a single URL path segment
	if strings.Contains(name, "/") || name == "." || name == ".." {
		return model.Lobby{}, fmt.Errorf("%w: %q", model.ErrInvalidLobbyName, name)
	}
	if err := model.ValidateRating(requiredRating); err != nil {
		return model.Lobby{}, err
	}

	lobby := model.Lobby{
		Name:           model.LobbyName(name),
		Leader:         account.Username,
		RequiredRating: requiredRating,
		CreatedAt:      now,
	}
	if err := Join(account, &lobby); err != nil {
		return model.Lobby{}, err
	}
	return lobby, nil
}

// Joinable returns the lobbies the account could join and is not already in,
// ordered by creation time
func Joinable(account model.Account, registry model.LobbyRegistry) []model.Lobby {
	var out []model.Lobby
	for _, l := range registry.Sorted() {
		if CanJoin(account, l) && !IsMember(account, l) {
			out = append(out, l)
		}
	}
	return out
}

// OpenRoles describes the vacancies of a lobby, e.g. "Tank", "2 DPS"
func OpenRoles(lobby model.Lobby) []string {
	var out []string
	for _, r := range model.Roles {
		n := lobby.Members.FreeSlots(r)
		switch {
		case n == 0:
		case r == model.RoleDPS:
			out = append(out, fmt.Sprintf("%d %s", n, r))
		default:
			out = append(out, string(r))
		}
	}
	return out
}
