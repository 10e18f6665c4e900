// Package document defines the JSON layout of the accounts and lobbies
// documents and a Storage built on any byte-oriented blob backend.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mcoot/lfg/internal/model"
)

// Document keys, shared by every blob backend
const (
	AccountsKey = "users.json"
	LobbiesKey  = "lobbies.json"
)

type accountRecord struct {
	PasswordHash string    `json:"password_hash"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}

type lobbyRecord struct {
	Name           string        `json:"name"`
	Leader         string        `json:"leader"`
	RequiredRating int           `json:"required_rating"`
	Members        membersRecord `json:"members"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Empty slots are encoded as null
type membersRecord struct {
	Tank   *string   `json:"Tank"`
	Healer *string   `json:"Healer"`
	DPS    []*string `json:"DPS"`
}

// EncodeAccounts renders the directory as indented JSON keyed by username
func EncodeAccounts(accounts model.AccountDirectory) ([]byte, error) {
	doc := make(map[string]accountRecord, len(accounts))
	for name, a := range accounts {
		doc[string(name)] = accountRecord{
			PasswordHash: a.PasswordHash,
			Email:        a.Email,
			Role:         string(a.Role),
			Rating:       a.Rating,
			CreatedAt:    a.CreatedAt,
		}
	}
	return marshal(doc)
}

// DecodeAccounts parses and validates an accounts document. Malformed JSON is
// reported as a *SyntaxError; records that parse but break the schema wrap
// model.ErrSchemaDrift.
func DecodeAccounts(data []byte) (model.AccountDirectory, error) {
	var doc map[string]accountRecord
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}

	out := make(model.AccountDirectory, len(doc))
	for name, rec := range doc {
		if name == "" {
			return nil, drift("account with empty username")
		}
		role := model.Role(rec.Role)
		if !role.Valid() {
			return nil, drift("account %q has role %q", name, rec.Role)
		}
		if model.ValidateRating(rec.Rating) != nil {
			return nil, drift("account %q has rating %d", name, rec.Rating)
		}
		out[model.Username(name)] = model.Account{
			Username:     model.Username(name),
			PasswordHash: rec.PasswordHash,
			Email:        rec.Email,
			Role:         role,
			Rating:       rec.Rating,
			CreatedAt:    rec.CreatedAt,
		}
	}
	return out, nil
}

// EncodeLobbies renders the registry as indented JSON keyed by lobby name
func EncodeLobbies(lobbies model.LobbyRegistry) ([]byte, error) {
	doc := make(map[string]lobbyRecord, len(lobbies))
	for name, l := range lobbies {
		dps := make([]*string, len(l.Members.DPS))
		for i, u := range l.Members.DPS {
			dps[i] = slotOut(u)
		}
		doc[string(name)] = lobbyRecord{
			Name:           string(l.Name),
			Leader:         string(l.Leader),
			RequiredRating: l.RequiredRating,
			Members: membersRecord{
				Tank:   slotOut(l.Members.Tank),
				Healer: slotOut(l.Members.Healer),
				DPS:    dps,
			},
			CreatedAt: l.CreatedAt,
		}
	}
	return marshal(doc)
}

// DecodeLobbies parses and validates a lobbies document
func DecodeLobbies(data []byte) (model.LobbyRegistry, error) {
	var doc map[string]lobbyRecord
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}

	out := make(model.LobbyRegistry, len(doc))
	for key, rec := range doc {
		if rec.Name != key {
			return nil, drift("lobby stored under %q is named %q", key, rec.Name)
		}
		if rec.Leader == "" {
			return nil, drift("lobby %q has no leader", key)
		}
		if model.ValidateRating(rec.RequiredRating) != nil {
			return nil, drift("lobby %q requires rating %d", key, rec.RequiredRating)
		}
		if len(rec.Members.DPS) != model.DPSSlots {
			return nil, drift("lobby %q has %d DPS slots", key, len(rec.Members.DPS))
		}

		lobby := model.Lobby{
			Name:           model.LobbyName(rec.Name),
			Leader:         model.Username(rec.Leader),
			RequiredRating: rec.RequiredRating,
			CreatedAt:      rec.CreatedAt,
			Members: model.MemberSlots{
				Tank:   slotIn(rec.Members.Tank),
				Healer: slotIn(rec.Members.Healer),
			},
		}
		for i, u := range rec.Members.DPS {
			lobby.Members.DPS[i] = slotIn(u)
		}

		seen := make(map[model.Username]bool)
		for _, u := range lobby.Members.Occupants() {
			if seen[u] {
				return nil, drift("lobby %q seats %q twice", key, u)
			}
			seen[u] = true
		}
		out[lobby.Name] = lobby
	}
	return out, nil
}

// SyntaxError reports a document that is not decodable JSON
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return "malformed document: " + e.Err.Error()
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func marshal(v any) ([]byte, error) {
	// encoding/json sorts map keys, so output is stable
	return json.MarshalIndent(v, "", "  ")
}

func unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	// json.Unmarshal validates syntax before decoding anything, so any other
	// failure means well-formed JSON of the wrong shape.
	err := json.Unmarshal(data, v)
	var syntaxErr *json.SyntaxError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &syntaxErr):
		return &SyntaxError{Err: err}
	default:
		return fmt.Errorf("%w: %v", model.ErrSchemaDrift, err)
	}
}

func drift(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{model.ErrSchemaDrift}, args...)...)
}

func slotOut(u model.Username) *string {
	if u == "" {
		return nil
	}
	s := string(u)
	return &s
}

func slotIn(s *string) model.Username {
	if s == nil {
		return ""
	}
	return model.Username(*s)
}
