package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/services/advisor"
	"github.com/mcoot/lfg/internal/services/auth"
	"github.com/mcoot/lfg/internal/services/lobby"
	"github.com/mcoot/lfg/internal/services/membership"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Account represents an account in API responses; the password hash never
// leaves the server
type Account struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// AccountFromModel converts a model.Account
func AccountFromModel(a *model.Account) Account {
	return Account{
		Username:  string(a.Username),
		Email:     a.Email,
		Role:      string(a.Role),
		Rating:    a.Rating,
		CreatedAt: a.CreatedAt,
	}
}

// AuthResponse is the response for login
type AuthResponse struct {
	Account      Account   `json:"account"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Account:      AccountFromModel(&s.Account),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Members shows each slot; null is an open slot
type Members struct {
	Tank   *string   `json:"Tank"`
	Healer *string   `json:"Healer"`
	DPS    []*string `json:"DPS"`
}

func slot(u model.Username) *string {
	if u == "" {
		return nil
	}
	s := string(u)
	return &s
}

// MembersFromModel converts model.MemberSlots
func MembersFromModel(m model.MemberSlots) Members {
	dps := make([]*string, len(m.DPS))
	for i, u := range m.DPS {
		dps[i] = slot(u)
	}
	return Members{Tank: slot(m.Tank), Healer: slot(m.Healer), DPS: dps}
}

// Action is the single action offered to the viewer
type Action struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason,omitempty"`
}

// Lobby represents a lobby in API responses
type Lobby struct {
	Name           string    `json:"name"`
	Leader         string    `json:"leader"`
	RequiredRating int       `json:"required_rating"`
	Members        Members   `json:"members"`
	OpenRoles      []string  `json:"open_roles"`
	CreatedAt      time.Time `json:"created_at"`
	Action         *Action   `json:"action,omitempty"`
}

// LobbyFromModel converts model.Lobby
func LobbyFromModel(l *model.Lobby) Lobby {
	open := membership.OpenRoles(*l)
	if open == nil {
		open = []string{}
	}
	return Lobby{
		Name:           string(l.Name),
		Leader:         string(l.Leader),
		RequiredRating: l.RequiredRating,
		Members:        MembersFromModel(l.Members),
		OpenRoles:      open,
		CreatedAt:      l.CreatedAt,
	}
}

// LobbyFromView converts a lobby with its viewer action
func LobbyFromView(v *lobby.LobbyView) Lobby {
	out := LobbyFromModel(&v.Lobby)
	out.Action = &Action{Kind: string(v.Action.Kind), Reason: v.Action.Reason}
	return out
}

// LobbyList is the response for GET /lobbies
type LobbyList struct {
	Lobbies []Lobby `json:"lobbies"`
}

// LobbyListFromViews converts a board
func LobbyListFromViews(views []lobby.LobbyView) LobbyList {
	out := LobbyList{Lobbies: make([]Lobby, len(views))}
	for i := range views {
		out.Lobbies[i] = LobbyFromView(&views[i])
	}
	return out
}

// Suggestion is the response for GET /suggestions
type Suggestion struct {
	Text        string `json:"text"`
	Recommended string `json:"recommended,omitempty"`
}

// SuggestionFromService converts an advisor suggestion
func SuggestionFromService(s advisor.Suggestion) Suggestion {
	return Suggestion{Text: s.Text, Recommended: string(s.Recommended)}
}
