package factory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lfg/internal/config"
	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/services/advisor"
	"github.com/mcoot/lfg/internal/services/directory"
	"github.com/mcoot/lfg/internal/services/membership"
	"github.com/mcoot/lfg/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()

	s.app.MustRegister("tank", model.RoleTank, 2000)
	s.app.MustRegister("healer", model.RoleHealer, 1800)
	s.app.MustRegister("dps1", model.RoleDPS, 1700)
	s.app.MustRegister("dps2", model.RoleDPS, 1600)
	s.app.MustRegister("dps3", model.RoleDPS, 1550)
	s.app.MustRegister("rookie", model.RoleDPS, 900)
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

// Test: a lobby fills up, a member leaves, the leader disbands it
func (s *IntegrationSuite) TestLobbyLifecycle() {
	lobby, err := s.app.LobbyController.CreateLobby(s.ctx, "tank", "Raid Night", 1500)
	s.Require().NoError(err)
	s.Equal(model.Username("tank"), lobby.Members.Tank)

	for _, member := range []model.Username{"healer", "dps1", "dps2", "dps3"} {
		_, err := s.app.LobbyController.JoinLobby(s.ctx, "Raid Night", member)
		s.Require().NoError(err, member)
	}

	full, err := s.app.LobbyController.GetLobby(s.ctx, "Raid Night")
	s.Require().NoError(err)
	s.Empty(membership.OpenRoles(*full))

	s.Require().NoError(s.app.LobbyController.LeaveLobby(s.ctx, "Raid Night", "dps2"))
	after, err := s.app.LobbyController.GetLobby(s.ctx, "Raid Night")
	s.Require().NoError(err)
	s.Equal(model.Username(""), after.Members.DPS[1])

	s.Require().NoError(s.app.LobbyController.DeleteLobby(s.ctx, "Raid Night", "tank"))
	lobbies, err := s.app.LobbyController.ListLobbies(s.ctx)
	s.Require().NoError(err)
	s.Empty(lobbies)
}

// Test: rating below the requirement blocks the join with the reason
func (s *IntegrationSuite) TestJoinRestrictedByRating() {
	_, err := s.app.LobbyController.CreateLobby(s.ctx, "tank", "Mythic", 1500)
	s.Require().NoError(err)

	_, err = s.app.LobbyController.JoinLobby(s.ctx, "Mythic", "rookie")
	var restricted *model.JoinRestrictedError
	s.Require().ErrorAs(err, &restricted)
	s.Equal(membership.ReasonRatingTooLow, restricted.Reason)
}

// Test: one account can only hold one slot across the registry
func (s *IntegrationSuite) TestOneLobbyPerAccount() {
	_, err := s.app.LobbyController.CreateLobby(s.ctx, "tank", "First", 0)
	s.Require().NoError(err)
	_, err = s.app.LobbyController.JoinLobby(s.ctx, "First", "dps1")
	s.Require().NoError(err)

	_, err = s.app.LobbyController.CreateLobby(s.ctx, "dps1", "Second", 0)
	s.ErrorIs(err, model.ErrAlreadyInLobby)
}

// Test: the advisor sees only lobbies the account could join
func (s *IntegrationSuite) TestAdvisorRecommendsJoinableLobby() {
	_, err := s.app.LobbyController.CreateLobby(s.ctx, "tank", "Casual", 1000)
	s.Require().NoError(err)
	_, err = s.app.LobbyController.CreateLobby(s.ctx, "healer", "Hardcore", 3000)
	s.Require().NoError(err)

	s.app.MockCompleter.QueueResponse("Recommended: Casual")
	suggestion := s.app.AdvisorService.Suggest(s.ctx, "dps1")

	s.Equal("Recommended: Casual", suggestion.Text)
	s.Equal(model.LobbyName("Casual"), suggestion.Recommended)
	s.Require().Len(suggestion.Candidates, 1)

	prompts := s.app.MockCompleter.Prompts()
	s.Require().Len(prompts, 1)
	s.Contains(prompts[0], "Casual")
	s.NotContains(prompts[0], "Hardcore")
}

// Test: completer failures surface as advisor text, never as a panic or error
func (s *IntegrationSuite) TestAdvisorReportsCompleterFailure() {
	_, err := s.app.LobbyController.CreateLobby(s.ctx, "tank", "Casual", 0)
	s.Require().NoError(err)

	s.app.MockCompleter.QueueError(errors.New("rate limited"))
	suggestion := s.app.AdvisorService.Suggest(s.ctx, "dps1")

	s.Equal("AI Error: rate limited", suggestion.Text)
	s.Error(suggestion.Err)
}

// Test: sessions carry the account snapshot taken at login
func (s *IntegrationSuite) TestLoginSessionRoundTrip() {
	session := s.app.MustLogin("healer")

	validated, err := s.app.AuthService.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(model.Username("healer"), validated.Username)
	s.Equal(model.RoleHealer, validated.Account.Role)
	s.Equal(1800, validated.Account.Rating)
}

// Test: New wires the file backend and survives a restart
func (s *IntegrationSuite) TestNewWithFileStorage() {
	cfg := &config.Config{
		Storage:        config.StorageFile,
		DataDir:        s.T().TempDir(),
		EmailDomain:    "@gmail.com",
		SessionSecret:  "file-secret",
		AdvisorWorkers: 1,
	}

	app, err := New(s.ctx, cfg, testutil.NopLogger())
	s.Require().NoError(err)
	s.Nil(app.Completer)

	_, err = app.LobbyController.CreateLobby(s.ctx, "ghost", "Nope", 0)
	s.ErrorIs(err, model.ErrAccountNotFound)

	_, err = app.Directory.Register(s.ctx, directory.Registration{
		Username: "keeper", Password: "pw", Email: "keeper@gmail.com", Role: "Healer", Rating: 1200,
	})
	s.Require().NoError(err)
	_, err = app.LobbyController.CreateLobby(s.ctx, "keeper", "Persistent", 1000)
	s.Require().NoError(err)
	s.Require().NoError(app.Close())

	reopened, err := New(s.ctx, cfg, testutil.NopLogger())
	s.Require().NoError(err)
	defer func() { _ = reopened.Close() }()

	lobby, err := reopened.LobbyController.GetLobby(s.ctx, "Persistent")
	s.Require().NoError(err)
	s.Equal(model.Username("keeper"), lobby.Members.Healer)

	suggestion := reopened.AdvisorService.Suggest(s.ctx, "keeper")
	s.Equal(advisor.TextNoCandidates, suggestion.Text)
}

func (s *IntegrationSuite) TestNewRejectsUnknownStorage() {
	_, err := New(s.ctx, &config.Config{Storage: "floppy"}, testutil.NopLogger())
	s.Error(err)
}
