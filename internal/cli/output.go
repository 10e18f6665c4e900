package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]string{"message": err.Error()}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			errData["code"] = apiErr.Code
			errData["message"] = apiErr.Message
		}
		data, _ := json.Marshal(map[string]any{"error": errData})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case AuthResult:
		o.printAuthResult(v)
	case Lobby:
		o.printLobby(v)
	case LobbyList:
		o.printLobbyList(v)
	case Suggestion:
		o.printSuggestion(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Account response type (matches API)
type Account struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// AuthResult combines account and token
type AuthResult struct {
	Account      Account   `json:"account"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Members response type; nil is an open slot
type Members struct {
	Tank   *string   `json:"Tank"`
	Healer *string   `json:"Healer"`
	DPS    []*string `json:"DPS"`
}

// Action response type
type Action struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason,omitempty"`
}

// Lobby response type
type Lobby struct {
	Name           string    `json:"name"`
	Leader         string    `json:"leader"`
	RequiredRating int       `json:"required_rating"`
	Members        Members   `json:"members"`
	OpenRoles      []string  `json:"open_roles"`
	CreatedAt      time.Time `json:"created_at"`
	Action         *Action   `json:"action,omitempty"`
}

// LobbyList response type
type LobbyList struct {
	Lobbies []Lobby `json:"lobbies"`
}

// Suggestion response type
type Suggestion struct {
	Text        string `json:"text"`
	Recommended string `json:"recommended,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printAccount(a Account) {
	o.printf("Account: %s <%s>\n", a.Username, a.Email)
	o.printf("Role: %s\n", a.Role)
	o.printf("Rating: %d\n", a.Rating)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printAccount(a.Account)
	o.printf("Token: %s\n", a.SessionToken)
	if !a.ExpiresAt.IsZero() {
		o.printf("Expires: %s\n", a.ExpiresAt.Local().Format(time.DateTime))
	}
}

func seat(u *string) string {
	if u == nil {
		return "(open)"
	}
	return *u
}

func describeAction(a *Action) string {
	if a == nil {
		return ""
	}
	if a.Reason != "" {
		return fmt.Sprintf("%s: %s", a.Kind, a.Reason)
	}
	return a.Kind
}

func (o *Output) printLobby(l Lobby) {
	o.printf("Lobby: %s\n", l.Name)
	o.printf("Leader: %s\n", l.Leader)
	o.printf("Required Rating: %d\n", l.RequiredRating)
	o.printf("Members:\n")
	o.printf("  Tank:   %s\n", seat(l.Members.Tank))
	o.printf("  Healer: %s\n", seat(l.Members.Healer))
	for i, d := range l.Members.DPS {
		o.printf("  DPS %d:  %s\n", i+1, seat(d))
	}
	if len(l.OpenRoles) > 0 {
		o.printf("Needs: %s\n", strings.Join(l.OpenRoles, ", "))
	} else {
		o.printf("Needs: nothing, lobby is full\n")
	}
	if l.Action != nil {
		o.printf("Action: %s\n", describeAction(l.Action))
	}
}

func (o *Output) printLobbyList(list LobbyList) {
	if len(list.Lobbies) == 0 {
		o.printf("No lobbies\n")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tLEADER\tREQ RATING\tNEEDS\tACTION")
	for _, l := range list.Lobbies {
		needs := strings.Join(l.OpenRoles, ", ")
		if needs == "" {
			needs = "full"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.Name, l.Leader, l.RequiredRating, needs, describeAction(l.Action))
	}
	_ = tw.Flush()
}

func (o *Output) printSuggestion(s Suggestion) {
	o.printf("%s\n", s.Text)
	if s.Recommended != "" {
		o.printf("\nRecommended lobby: %s\n", s.Recommended)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	o.printf("Status: %s\n", h.Status)
}
