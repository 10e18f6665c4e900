package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberSlotsClearScansTankHealerDPS(t *testing.T) {
	// A corrupted record may seat the same user twice; Clear removes one slot.
	m := MemberSlots{Tank: "x", DPS: [DPSSlots]Username{"y", "x", ""}}

	require.True(t, m.Clear("x"))
	assert.Empty(t, m.Tank)
	assert.Equal(t, Username("x"), m.DPS[1])

	require.True(t, m.Clear("x"))
	assert.Empty(t, m.DPS[1])
	assert.False(t, m.Clear("x"))
}

func TestMemberSlotsEmptyUsernameNeverHeld(t *testing.T) {
	var m MemberSlots
	assert.False(t, m.Holds(""))
	assert.False(t, m.Clear(""))
}

func TestMemberSlotsOccupants(t *testing.T) {
	m := MemberSlots{Healer: "h", DPS: [DPSSlots]Username{"", "d2", "d3"}}
	assert.Equal(t, []Username{"h", "d2", "d3"}, m.Occupants())
	assert.Equal(t, 1, m.FreeSlots(RoleDPS))
	assert.True(t, m.HasFreeSlot(RoleTank))
	assert.False(t, m.HasFreeSlot(RoleHealer))
}

func TestLobbyRegistryCloneIsIndependent(t *testing.T) {
	reg := LobbyRegistry{"r": {Name: "r", Members: MemberSlots{Tank: "a"}}}
	clone := reg.Clone()

	l := clone["r"]
	l.Members.DPS[0] = "b"
	clone["r"] = l

	assert.Empty(t, reg["r"].Members.DPS[0])
}

func TestLobbyRegistrySorted(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reg := LobbyRegistry{
		"b": {Name: "b", CreatedAt: t0},
		"a": {Name: "a", CreatedAt: t0},
		"c": {Name: "c", CreatedAt: t0.Add(-time.Hour)},
	}

	var names []LobbyName
	for _, l := range reg.Sorted() {
		names = append(names, l.Name)
	}
	assert.Equal(t, []LobbyName{"c", "a", "b"}, names)
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr error
	}{
		{in: "1500", want: 1500},
		{in: " 0 ", want: 0},
		{in: "4000", want: 4000},
		{in: "4001", wantErr: ErrRatingOutOfRange},
		{in: "-5", wantErr: ErrRatingOutOfRange},
		{in: "fast", wantErr: ErrRatingNotNumber},
		{in: "", wantErr: ErrRatingNotNumber},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRating(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Healer")
	require.NoError(t, err)
	assert.Equal(t, RoleHealer, r)

	_, err = ParseRole("healer")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestJoinRestrictedErrorMatchesSentinel(t *testing.T) {
	var err error = &JoinRestrictedError{Lobby: "Raid1", Reason: "Rating too low"}
	assert.ErrorIs(t, err, ErrJoinRestricted)
	assert.Equal(t, "cannot join Raid1: Rating too low", err.Error())
}
