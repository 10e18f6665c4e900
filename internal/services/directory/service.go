// Package directory manages registered accounts.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/lfg/internal/dependencies/clock"
	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/services/credentials"
	"github.com/mcoot/lfg/internal/storage"
)

// DefaultEmailDomain is the only email suffix accepted at registration
const DefaultEmailDomain = "@gmail.com"

// MaxPasswordBytes is the longest password bcrypt will hash
const MaxPasswordBytes = 72

// Registration is the input to Register
type Registration struct {
	Username string
	Password string
	Email    string
	Role     string
	Rating   int
}

// Config holds configuration for the directory service
type Config struct {
	EmailDomain string
}

// DefaultConfig returns default directory configuration
func DefaultConfig() Config {
	return Config{EmailDomain: DefaultEmailDomain}
}

// Service registers and looks up accounts
type Service struct {
	storage storage.Storage
	hasher  credentials.Hasher
	clock   clock.Clock
	logger  *slog.Logger
	cfg     Config

	// Serializes load-modify-save of the accounts document
	mu sync.Mutex
}

// New creates a directory Service
func New(store storage.Storage, hasher credentials.Hasher, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.EmailDomain == "" {
		cfg.EmailDomain = DefaultEmailDomain
	}
	return &Service{
		storage: store,
		hasher:  hasher,
		clock:   clk,
		logger:  logger.With(slog.String("component", "directory")),
		cfg:     cfg,
	}
}

// EmailDomain returns the accepted email suffix
func (s *Service) EmailDomain() string {
	return s.cfg.EmailDomain
}

// Validate checks a registration without touching storage
func (r Registration) Validate(emailDomain string) (model.Role, error) {
	for _, f := range []struct{ name, value string }{
		{"username", r.Username},
		{"password", r.Password},
		{"email", r.Email},
		{"role", r.Role},
	} {
		if strings.TrimSpace(f.value) == "" {
			return "", fmt.Errorf("%w: %s", model.ErrMissingField, f.name)
		}
	}

	if len(r.Password) > MaxPasswordBytes {
		return "", model.ErrPasswordTooLong
	}

	if !strings.HasSuffix(strings.TrimSpace(r.Email), emailDomain) {
		return "", fmt.Errorf("%w: must end with %s", model.ErrInvalidEmail, emailDomain)
	}

	role, err := model.ParseRole(r.Role)
	if err != nil {
		return "", err
	}

	if err := model.ValidateRating(r.Rating); err != nil {
		return "", err
	}
	return role, nil
}

// Register validates and stores a new account
func (s *Service) Register(ctx context.Context, reg Registration) (*model.Account, error) {
	role, err := reg.Validate(s.cfg.EmailDomain)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.storage.LoadAccounts(ctx)
	if err != nil {
		return nil, err
	}

	username := model.Username(strings.TrimSpace(reg.Username))
	if _, exists := accounts[username]; exists {
		return nil, fmt.Errorf("%w: %s", model.ErrUsernameTaken, username)
	}

	account := model.Account{
		Username:     username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(reg.Email),
		Role:         role,
		Rating:       reg.Rating,
		CreatedAt:    s.clock.Now(),
	}
	accounts[username] = account

	if err := s.storage.SaveAccounts(ctx, accounts); err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		slog.String("username", string(username)),
		slog.String("role", string(role)),
		slog.Int("rating", reg.Rating))
	return &account, nil
}

// Authenticate returns the account when username and password match.
// Unknown users and wrong passwords are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.Account, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password", model.ErrMissingField)
	}

	accounts, err := s.storage.LoadAccounts(ctx)
	if err != nil {
		return nil, err
	}

	account, ok := accounts[model.Username(strings.TrimSpace(username))]
	if !ok || !s.hasher.Verify(account.PasswordHash, password) {
		return nil, model.ErrInvalidCredentials
	}
	return &account, nil
}

// GetAccount returns the stored account for username
func (s *Service) GetAccount(ctx context.Context, username model.Username) (*model.Account, error) {
	accounts, err := s.storage.LoadAccounts(ctx)
	if err != nil {
		return nil, err
	}

	account, ok := accounts[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrAccountNotFound, username)
	}
	return &account, nil
}
