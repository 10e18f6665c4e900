package model

import (
	"fmt"
	"sort"
	"time"
)

// LobbyName is the unique, user-chosen identifier of a lobby
type LobbyName string

// DPSSlots is the number of DPS positions in every lobby
const DPSSlots = 3

// MemberSlots holds the fixed seating of a lobby. An empty Username is an
// open slot.
type MemberSlots struct {
	Tank   Username
	Healer Username
	DPS    [DPSSlots]Username
}

// slots returns pointers to the positions a role may occupy, in fill order
func (m *MemberSlots) slots(role Role) []*Username {
	switch role {
	case RoleTank:
		return []*Username{&m.Tank}
	case RoleHealer:
		return []*Username{&m.Healer}
	case RoleDPS:
		out := make([]*Username, len(m.DPS))
		for i := range m.DPS {
			out[i] = &m.DPS[i]
		}
		return out
	}
	return nil
}

// all returns every position in scan order: Tank, Healer, DPS
func (m *MemberSlots) all() []*Username {
	var out []*Username
	for _, r := range Roles {
		out = append(out, m.slots(r)...)
	}
	return out
}

// HasFreeSlot reports whether the role has at least one open position
func (m MemberSlots) HasFreeSlot(role Role) bool {
	for _, s := range m.slots(role) {
		if *s == "" {
			return true
		}
	}
	return false
}

// FreeSlots counts the open positions for a role
func (m MemberSlots) FreeSlots(role Role) int {
	n := 0
	for _, s := range m.slots(role) {
		if *s == "" {
			n++
		}
	}
	return n
}

// Assign seats user in the first open position for role
func (m *MemberSlots) Assign(role Role, user Username) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	for _, s := range m.slots(role) {
		if *s == "" {
			*s = user
			return nil
		}
	}
	return fmt.Errorf("%w: no open %s slot", ErrSlotUnavailable, role)
}

// Holds reports whether user occupies any position
func (m MemberSlots) Holds(user Username) bool {
	for _, s := range m.all() {
		if *s == user {
			return user != ""
		}
	}
	return false
}

// Clear empties the first position held by user, scanning Tank, Healer, then
// DPS. It reports whether a position was cleared.
func (m *MemberSlots) Clear(user Username) bool {
	if user == "" {
		return false
	}
	for _, s := range m.all() {
		if *s == user {
			*s = ""
			return true
		}
	}
	return false
}

// Occupants lists the seated usernames in scan order
func (m MemberSlots) Occupants() []Username {
	var out []Username
	for _, s := range m.all() {
		if *s != "" {
			out = append(out, *s)
		}
	}
	return out
}

// Lobby is a rating-gated group with one Tank, one Healer and three DPS slots
type Lobby struct {
	Name           LobbyName
	Leader         Username
	RequiredRating int
	Members        MemberSlots
	CreatedAt      time.Time
}

// LobbyRegistry maps lobby names to lobbies
type LobbyRegistry map[LobbyName]Lobby

// Clone returns an independent copy of the registry. Lobby is a value type,
// so copying the map copies every record.
func (r LobbyRegistry) Clone() LobbyRegistry {
	out := make(LobbyRegistry, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Sorted returns the lobbies ordered by creation time, then name
func (r LobbyRegistry) Sorted() []Lobby {
	out := make([]Lobby, 0, len(r))
	for _, l := range r {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
