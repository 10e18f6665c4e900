package membership

import "github.com/mcoot/lfg/internal/model"

// ActionKind is the single action offered to a viewer for a lobby
type ActionKind string

const (
	ActionDelete  ActionKind = "delete"
	ActionLeave   ActionKind = "leave"
	ActionJoin    ActionKind = "join"
	ActionBlocked ActionKind = "blocked"
)

// Action is what a presentation layer should offer next to a lobby
type Action struct {
	Kind   ActionKind
	Reason string // Set only for ActionBlocked
}

// Affordance picks the action for viewer on lobby. Leadership wins over
// membership, which wins over joinability.
func Affordance(viewer model.Account, lobby model.Lobby) Action {
	switch {
	case lobby.Leader == viewer.Username:
		return Action{Kind: ActionDelete}
	case IsMember(viewer, lobby):
		return Action{Kind: ActionLeave}
	case CanJoin(viewer, lobby):
		return Action{Kind: ActionJoin}
	default:
		return Action{Kind: ActionBlocked, Reason: JoinRestrictionReason(viewer, lobby)}
	}
}
