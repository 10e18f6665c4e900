package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventLobbyCreated EventType = "lobby_created"
	EventMemberJoined EventType = "member_joined"
	EventMemberLeft   EventType = "member_left"
	EventLobbyDeleted EventType = "lobby_deleted"
)

// Event describes a committed change to the lobby registry
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Lobby     LobbyName `json:"lobby"`
	Username  Username  `json:"username"` // The account that triggered the change
	Payload   any       `json:"payload,omitempty"`
}

// MemberPayload accompanies member_joined and member_left
type MemberPayload struct {
	Role Role `json:"role"`
}

// LobbyDeletedPayload lists the members who lost their slot when the lobby
// was deleted
type LobbyDeletedPayload struct {
	Leader         Username   `json:"leader"`
	RemovedMembers []Username `json:"removed_members"`
}
