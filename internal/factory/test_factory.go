package factory

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/lfg/internal/dependencies/mocks"
	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/services/advisor"
	"github.com/mcoot/lfg/internal/services/auth"
	"github.com/mcoot/lfg/internal/services/credentials"
	"github.com/mcoot/lfg/internal/services/directory"
	"github.com/mcoot/lfg/internal/storage/memory"
	"github.com/mcoot/lfg/internal/testutil"
)

// TestSessionSecret signs sessions issued by a TestApp
const TestSessionSecret = "test-session-secret"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MockCompleter *mocks.MockCompleter
	MemoryStorage *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockCompleter := mocks.NewMockCompleter()

	app := newWithDependencies(store, mockClock, mockRandom, mockCompleter, Settings{
		Hasher:    credentials.NewBcrypt(bcrypt.MinCost),
		Directory: directory.DefaultConfig(),
		Auth: auth.Config{
			SessionDuration: auth.DefaultConfig().SessionDuration,
			Secret:          TestSessionSecret,
		},
		Advisor: advisor.Config{Timeout: 5 * time.Second, Concurrency: 2},
	}, testutil.NopLogger())

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		MockCompleter: mockCompleter,
		MemoryStorage: store,
	}
}

// MustRegister registers an account with password "password" or panics
func (t *TestApp) MustRegister(username string, role model.Role, rating int) *model.Account {
	account, err := t.Directory.Register(context.Background(), directory.Registration{
		Username: username,
		Password: "password",
		Email:    username + directory.DefaultEmailDomain,
		Role:     string(role),
		Rating:   rating,
	})
	if err != nil {
		panic(err)
	}
	return account
}

// MustLogin logs username in with password "password" or panics
func (t *TestApp) MustLogin(username string) *auth.Session {
	session, err := t.AuthService.Login(context.Background(), username, "password")
	if err != nil {
		panic(err)
	}
	return session
}
