package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/lfg/internal/model"
)

var created = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestLobbiesWireFormat(t *testing.T) {
	reg := model.LobbyRegistry{
		"Raid1": {
			Name:           "Raid1",
			Leader:         "alice",
			RequiredRating: 1500,
			Members:        model.MemberSlots{Tank: "alice", DPS: [model.DPSSlots]model.Username{"", "dee", ""}},
			CreatedAt:      created,
		},
	}

	data, err := EncodeLobbies(reg)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"Raid1": {
			"name": "Raid1",
			"leader": "alice",
			"required_rating": 1500,
			"members": {"Tank": "alice", "Healer": null, "DPS": [null, "dee", null]},
			"created_at": "2024-01-01T12:00:00Z"
		}
	}`, string(data))
	assert.Contains(t, string(data), "\n  \"Raid1\"")

	decoded, err := DecodeLobbies(data)
	require.NoError(t, err)
	assert.Equal(t, reg, decoded)
}

func TestAccountsWireFormat(t *testing.T) {
	dir := model.AccountDirectory{
		"alice": {Username: "alice", PasswordHash: "$2a$hash", Email: "alice@gmail.com", Role: model.RoleTank, Rating: 1600, CreatedAt: created},
	}

	data, err := EncodeAccounts(dir)
	require.NoError(t, err)
	assert.JSONEq(t, `{"alice": {"password_hash": "$2a$hash", "email": "alice@gmail.com",
		"role": "Tank", "rating": 1600, "created_at": "2024-01-01T12:00:00Z"}}`, string(data))

	decoded, err := DecodeAccounts(data)
	require.NoError(t, err)
	assert.Equal(t, dir, decoded)
}

func TestDecodeEmptyDocument(t *testing.T) {
	for _, in := range []string{"", "   \n", "{}", "null"} {
		lobbies, err := DecodeLobbies([]byte(in))
		require.NoError(t, err, in)
		assert.Empty(t, lobbies)

		accounts, err := DecodeAccounts([]byte(in))
		require.NoError(t, err, in)
		assert.Empty(t, accounts)
	}
}

func TestDecodeMalformedIsSyntaxError(t *testing.T) {
	_, err := DecodeLobbies([]byte(`{"Raid1": {`))
	var syntaxErr *SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
	assert.NotErrorIs(t, err, model.ErrSchemaDrift)
}

func TestDecodeSchemaDrift(t *testing.T) {
	tests := map[string]string{
		"wrong top-level type": `[]`,
		"wrong field type":     `{"Raid1": {"name": "Raid1", "leader": "a", "required_rating": "high"}}`,
		"name mismatch":        `{"Raid1": {"name": "Raid2", "leader": "a", "members": {"DPS": [null, null, null]}}}`,
		"missing leader":       `{"Raid1": {"name": "Raid1", "members": {"DPS": [null, null, null]}}}`,
		"rating out of range":  `{"Raid1": {"name": "Raid1", "leader": "a", "required_rating": 5000, "members": {"DPS": [null, null, null]}}}`,
		"short dps":            `{"Raid1": {"name": "Raid1", "leader": "a", "members": {"DPS": [null, null]}}}`,
		"double seat":          `{"Raid1": {"name": "Raid1", "leader": "a", "members": {"Tank": "a", "DPS": ["a", null, null]}}}`,
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeLobbies([]byte(in))
			assert.ErrorIs(t, err, model.ErrSchemaDrift)
		})
	}

	_, err := DecodeAccounts([]byte(`{"bob": {"role": "Bard", "rating": 10}}`))
	assert.ErrorIs(t, err, model.ErrSchemaDrift)
	_, err = DecodeAccounts([]byte(`{"bob": {"role": "DPS", "rating": -1}}`))
	assert.ErrorIs(t, err, model.ErrSchemaDrift)
}
