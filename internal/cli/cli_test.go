package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/lfg/internal/api"
	"github.com/mcoot/lfg/internal/factory"
	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/testutil"
)

type harness struct {
	t         *testing.T
	app       *factory.TestApp
	serverURL string
	tokenFile string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("LFG_TOKEN", "")

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:          testutil.NopLogger(),
		Directory:       app.Directory,
		AuthService:     app.AuthService,
		LobbyController: app.LobbyController,
		AdvisorService:  app.AdvisorService,
		EventHub:        app.EventHub,
		Metrics:         app.Metrics,
	}))
	t.Cleanup(srv.Close)

	return &harness{
		t:         t,
		app:       app,
		serverURL: srv.URL,
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

// run executes the CLI with the harness server and token file
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", h.serverURL, "--token-file", h.tokenFile}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) registerAndLogin(user, role, rating string) {
	h.t.Helper()

	_, err := h.run("account", "register", "--user", user, "--pass", "pw", "--email", user+"@gmail.com", "--role", role, "--rating", rating)
	require.NoError(h.t, err)
	_, err = h.run("account", "login", "--user", user, "--pass", "pw")
	require.NoError(h.t, err)
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("health")
	require.NoError(t, err)
	assert.Equal(t, "Status: ok\n", out)
}

func TestRegisterRejectsNonNumericRating(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("account", "register", "--user", "a", "--pass", "p", "--email", "a@gmail.com", "--role", "Tank", "--rating", "abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrRatingNotNumber)
	assert.Contains(t, err.Error(), "rating must be a number")

	_, lookupErr := h.app.Directory.GetAccount(t.Context(), "a")
	assert.ErrorIs(t, lookupErr, model.ErrAccountNotFound)
}

func TestLoginSavesTokenAndLogoutClearsIt(t *testing.T) {
	h := newHarness(t)
	h.registerAndLogin("alice", "Healer", "2100")

	data, err := os.ReadFile(h.tokenFile)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	out, err := h.run("-o", "json", "account", "me")
	require.NoError(t, err)
	var me Account
	require.NoError(t, json.Unmarshal([]byte(out), &me))
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, 2100, me.Rating)

	out, err = h.run("account", "logout")
	require.NoError(t, err)
	assert.Equal(t, "Logged out\n", out)

	_, err = os.Stat(h.tokenFile)
	assert.True(t, os.IsNotExist(err))

	_, err = h.run("account", "me")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestLobbyCommands(t *testing.T) {
	h := newHarness(t)
	h.registerAndLogin("tank", "Tank", "2500")

	out, err := h.run("lobby", "create", "Raid Night", "--rating", "1500")
	require.NoError(t, err)
	assert.Contains(t, out, "Lobby: Raid Night")
	assert.Contains(t, out, "Tank:   tank")
	assert.Contains(t, out, "Needs: Healer, 3 DPS")

	out, err = h.run("lobby", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Raid Night")
	assert.Contains(t, out, "delete")

	out, err = h.run("-o", "json", "lobby", "get", "Raid Night")
	require.NoError(t, err)
	var lobby Lobby
	require.NoError(t, json.Unmarshal([]byte(out), &lobby))
	assert.Equal(t, 1500, lobby.RequiredRating)
	require.NotNil(t, lobby.Action)
	assert.Equal(t, "delete", lobby.Action.Kind)

	_, err = h.run("lobby", "create", "Other", "--rating", "lots")
	assert.ErrorIs(t, err, model.ErrRatingNotNumber)

	out, err = h.run("lobby", "delete", "Raid Night")
	require.NoError(t, err)
	assert.Equal(t, "Deleted lobby Raid Night\n", out)

	out, err = h.run("lobby", "list")
	require.NoError(t, err)
	assert.Equal(t, "No lobbies\n", out)
}

func TestJoinRestrictedReportsReason(t *testing.T) {
	h := newHarness(t)
	h.registerAndLogin("tank", "Tank", "2500")
	_, err := h.run("lobby", "create", "Mythic", "--rating", "2000")
	require.NoError(t, err)

	h.registerAndLogin("rookie", "DPS", "100")
	_, err = h.run("lobby", "join", "Mythic")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "JOIN_RESTRICTED", apiErr.Code)
	assert.Equal(t, "Rating too low", apiErr.Message)
}

func TestSuggest(t *testing.T) {
	h := newHarness(t)
	h.registerAndLogin("tank", "Tank", "2500")
	_, err := h.run("lobby", "create", "Raid1", "--rating", "1000")
	require.NoError(t, err)

	h.registerAndLogin("dps", "DPS", "1800")
	h.app.MockCompleter.QueueResponse("Recommended: Raid1\nThey need DPS.")

	out, err := h.run("suggest")
	require.NoError(t, err)
	assert.Contains(t, out, "They need DPS.")
	assert.Contains(t, out, "Recommended lobby: Raid1")
}

func TestPrintErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	NewOutput("json", &buf).PrintError(&APIError{Status: 409, Code: "NOT_IN_LOBBY", Message: "You are not in this lobby"})

	assert.JSONEq(t, `{"error":{"code":"NOT_IN_LOBBY","message":"You are not in this lobby"}}`, buf.String())
}
