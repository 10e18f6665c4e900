// Package lobby coordinates load, rule check, mutate and save for the lobby
// registry and announces each change.
package lobby

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/lfg/internal/dependencies/clock"
	"github.com/mcoot/lfg/internal/metrics"
	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/services/membership"
	"github.com/mcoot/lfg/internal/storage"
)

// AccountLookup resolves the current account for a username
type AccountLookup interface {
	GetAccount(ctx context.Context, username model.Username) (*model.Account, error)
}

// Publisher receives lobby events after a successful save
type Publisher interface {
	Publish(event model.Event)
}

// LobbyView pairs a lobby with the action offered to the viewer
type LobbyView struct {
	Lobby  model.Lobby
	Action membership.Action
}

// Controller manages the lobby registry
type Controller struct {
	storage   storage.Storage
	accounts  AccountLookup
	clock     clock.Clock
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger

	// Guards every load-mutate-save of the registry
	mu sync.Mutex
}

// NewController creates a new lobby Controller. publisher and m may be nil.
func NewController(
	store storage.Storage,
	accounts AccountLookup,
	clk clock.Clock,
	publisher Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   store,
		accounts:  accounts,
		clock:     clk,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With(slog.String("component", "lobby")),
	}
}

// CreateLobby creates a lobby led by leader, who takes the slot for their role
func (c *Controller) CreateLobby(ctx context.Context, leader model.Username, name string, requiredRating int) (lobby *model.Lobby, err error) {
	defer func() { c.metrics.LobbyOperation("create", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: lobby name", model.ErrMissingField)
	}
	if err := model.ValidateRating(requiredRating); err != nil {
		return nil, err
	}

	account, err := c.accounts.GetAccount(ctx, leader)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	registry, err := c.storage.LoadLobbies(ctx)
	if err != nil {
		return nil, err
	}

	if current, ok := membership.LobbyOf(*account, registry); ok {
		return nil, fmt.Errorf("%w: %s", model.ErrAlreadyInLobby, current.Name)
	}
	if _, exists := registry[model.LobbyName(name)]; exists {
		return nil, fmt.Errorf("%w: %s", model.ErrLobbyNameTaken, name)
	}

	created, err := membership.NewLobby(*account, name, requiredRating, c.clock.Now())
	if err != nil {
		return nil, err
	}
	registry[created.Name] = created

	if err := c.storage.SaveLobbies(ctx, registry); err != nil {
		return nil, err
	}

	c.logger.Info("lobby created",
		slog.String("lobby", string(created.Name)),
		slog.String("leader", string(leader)),
		slog.Int("required_rating", requiredRating))
	c.publish(model.EventLobbyCreated, created.Name, leader, model.MemberPayload{Role: account.Role})
	return &created, nil
}

// GetLobby retrieves a lobby by name
func (c *Controller) GetLobby(ctx context.Context, name model.LobbyName) (*model.Lobby, error) {
	registry, err := c.storage.LoadLobbies(ctx)
	if err != nil {
		return nil, err
	}
	lobby, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrLobbyNotFound, name)
	}
	return &lobby, nil
}

// ListLobbies returns every lobby in creation order
func (c *Controller) ListLobbies(ctx context.Context) ([]model.Lobby, error) {
	registry, err := c.storage.LoadLobbies(ctx)
	if err != nil {
		return nil, err
	}
	return registry.Sorted(), nil
}

// Board lists every lobby with the action offered to viewer
func (c *Controller) Board(ctx context.Context, viewer model.Username) ([]LobbyView, error) {
	account, err := c.accounts.GetAccount(ctx, viewer)
	if err != nil {
		return nil, err
	}
	lobbies, err := c.ListLobbies(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]LobbyView, 0, len(lobbies))
	for _, l := range lobbies {
		views = append(views, LobbyView{Lobby: l, Action: membership.Affordance(*account, l)})
	}
	return views, nil
}

// View returns one lobby with the action offered to viewer
func (c *Controller) View(ctx context.Context, name model.LobbyName, viewer model.Username) (*LobbyView, error) {
	account, err := c.accounts.GetAccount(ctx, viewer)
	if err != nil {
		return nil, err
	}
	lobby, err := c.GetLobby(ctx, name)
	if err != nil {
		return nil, err
	}
	return &LobbyView{Lobby: *lobby, Action: membership.Affordance(*account, *lobby)}, nil
}

// CurrentLobby returns the lobby username sits in, or nil
func (c *Controller) CurrentLobby(ctx context.Context, username model.Username) (*model.Lobby, error) {
	account, err := c.accounts.GetAccount(ctx, username)
	if err != nil {
		return nil, err
	}
	registry, err := c.storage.LoadLobbies(ctx)
	if err != nil {
		return nil, err
	}
	lobby, ok := membership.LobbyOf(*account, registry)
	if !ok {
		return nil, nil
	}
	return &lobby, nil
}

// JoinLobby seats username in the named lobby
func (c *Controller) JoinLobby(ctx context.Context, name model.LobbyName, username model.Username) (lobby *model.Lobby, err error) {
	defer func() { c.metrics.LobbyOperation("join", err) }()

	account, err := c.accounts.GetAccount(ctx, username)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	registry, err := c.storage.LoadLobbies(ctx)
	if err != nil {
		return nil, err
	}

	target, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrLobbyNotFound, name)
	}
	if current, ok := membership.LobbyOf(*account, registry); ok {
		return nil, fmt.Errorf("%w: %s", model.ErrAlreadyInLobby, current.Name)
	}
	if !membership.CanJoin(*account, target) {
		return nil, &model.JoinRestrictedError{
			Lobby:  name,
			Reason: membership.JoinRestrictionReason(*account, target),
		}
	}

	if err := membership.Join(*account, &target); err != nil {
		return nil, err
	}
	registry[name] = target

	if err := c.storage.SaveLobbies(ctx, registry); err != nil {
		return nil, err
	}

	c.logger.Info("member joined",
		slog.String("lobby", string(name)),
		slog.String("username", string(username)),
		slog.String("role", string(account.Role)))
	c.publish(model.EventMemberJoined, name, username, model.MemberPayload{Role: account.Role})
	return &target, nil
}

// LeaveLobby frees the slot username holds in the named lobby
func (c *Controller) LeaveLobby(ctx context.Context, name model.LobbyName, username model.Username) (err error) {
	defer func() { c.metrics.LobbyOperation("leave", err) }()

	account, err := c.accounts.GetAccount(ctx, username)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	registry, err := c.storage.LoadLobbies(ctx)
	if err != nil {
		return err
	}

	target, ok := registry[name]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrLobbyNotFound, name)
	}
	if err := membership.Leave(*account, &target); err != nil {
		return err
	}
	registry[name] = target

	if err := c.storage.SaveLobbies(ctx, registry); err != nil {
		return err
	}

	c.logger.Info("member left",
		slog.String("lobby", string(name)),
		slog.String("username", string(username)))
	c.publish(model.EventMemberLeft, name, username, model.MemberPayload{Role: account.Role})
	return nil
}

// DeleteLobby removes a lobby; only its leader may do so
func (c *Controller) DeleteLobby(ctx context.Context, name model.LobbyName, requester model.Username) (err error) {
	defer func() { c.metrics.LobbyOperation("delete", err) }()

	c.mu.Lock()
	defer c.mu.Unlock()

	registry, err := c.storage.LoadLobbies(ctx)
	if err != nil {
		return err
	}

	target, ok := registry[name]
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrLobbyNotFound, name)
	}
	if target.Leader != requester {
		return fmt.Errorf("%w: %s", model.ErrNotLeader, name)
	}
	delete(registry, name)

	if err := c.storage.SaveLobbies(ctx, registry); err != nil {
		return err
	}

	removed := target.Members.Occupants()
	c.logger.Info("lobby deleted",
		slog.String("lobby", string(name)),
		slog.String("leader", string(requester)),
		slog.Int("removed_members", len(removed)))
	c.publish(model.EventLobbyDeleted, name, requester, model.LobbyDeletedPayload{
		Leader:         target.Leader,
		RemovedMembers: removed,
	})
	return nil
}

func (c *Controller) publish(eventType model.EventType, name model.LobbyName, username model.Username, payload any) {
	if c.publisher == nil {
		return
	}
	c.publisher.Publish(model.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: c.clock.Now(),
		Lobby:     name,
		Username:  username,
		Payload:   payload,
	})
}

// ControllerInterface is the lobby surface used by the API
type ControllerInterface interface {
	CreateLobby(ctx context.Context, leader model.Username, name string, requiredRating int) (*model.Lobby, error)
	GetLobby(ctx context.Context, name model.LobbyName) (*model.Lobby, error)
	ListLobbies(ctx context.Context) ([]model.Lobby, error)
	Board(ctx context.Context, viewer model.Username) ([]LobbyView, error)
	View(ctx context.Context, name model.LobbyName, viewer model.Username) (*LobbyView, error)
	CurrentLobby(ctx context.Context, username model.Username) (*model.Lobby, error)
	JoinLobby(ctx context.Context, name model.LobbyName, username model.Username) (*model.Lobby, error)
	LeaveLobby(ctx context.Context, name model.LobbyName, username model.Username) error
	DeleteLobby(ctx context.Context, name model.LobbyName, requester model.Username) error
}

var _ ControllerInterface = (*Controller)(nil)
