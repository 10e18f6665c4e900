// Package auth issues and verifies session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mcoot/lfg/internal/dependencies/clock"
	"github.com/mcoot/lfg/internal/model"
)

// ErrInvalidSession is returned for malformed, expired or revoked tokens
var ErrInvalidSession = errors.New("invalid or expired session")

// Authenticator checks a username and password
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.Account, error)
}

// Session represents an authenticated session.
// Account is a snapshot taken at login; it is never refreshed.
type Session struct {
	Token     string
	ID        string
	Username  model.Username
	Account   model.Account
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type claims struct {
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	Rating int        `json:"rating"`
	jwt.RegisteredClaims
}

// Service handles login and session tokens
type Service struct {
	directory Authenticator
	clock     clock.Clock
	logger    *slog.Logger

	secret          []byte
	sessionDuration time.Duration

	mu      sync.Mutex
	revoked map[string]time.Time
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	Secret          string
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service. cfg.Secret must not be empty.
func New(directory Authenticator, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		directory:       directory,
		clock:           clk,
		logger:          logger.With(slog.String("component", "auth")),
		secret:          []byte(cfg.Secret),
		sessionDuration: cfg.SessionDuration,
		revoked:         make(map[string]time.Time),
	}
}

// Login authenticates through the directory and issues a session
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	account, err := s.directory.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	session, err := s.issue(account)
	if err != nil {
		return nil, err
	}
	s.logger.Info("session issued",
		slog.String("username", string(account.Username)),
		slog.String("session_id", session.ID))
	return session, nil
}

func (s *Service) issue(account *model.Account) (*Session, error) {
	now := s.clock.Now().Truncate(time.Second)
	expires := now.Add(s.sessionDuration)
	id := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email:  account.Email,
		Role:   account.Role,
		Rating: account.Rating,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   string(account.Username),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	snapshot := *account
	snapshot.PasswordHash = ""
	return &Session{
		Token:     signed,
		ID:        id,
		Username:  account.Username,
		Account:   snapshot,
		IssuedAt:  now,
		ExpiresAt: expires,
	}, nil
}

// ValidateSession checks signature, expiry and revocation of a token
func (s *Service) ValidateSession(token string) (*Session, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	if c.Subject == "" || c.ID == "" {
		return nil, ErrInvalidSession
	}

	s.mu.Lock()
	_, revoked := s.revoked[c.ID]
	s.mu.Unlock()
	if revoked {
		return nil, ErrInvalidSession
	}

	username := model.Username(c.Subject)
	session := &Session{
		Token:    token,
		ID:       c.ID,
		Username: username,
		Account: model.Account{
			Username: username,
			Email:    c.Email,
			Role:     c.Role,
			Rating:   c.Rating,
		},
		ExpiresAt: c.ExpiresAt.Time,
	}
	if c.IssuedAt != nil {
		session.IssuedAt = c.IssuedAt.Time
	}
	return session, nil
}

// Logout revokes the token's session. Invalid tokens are ignored.
func (s *Service) Logout(token string) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.revoked[session.ID] = session.ExpiresAt
	s.mu.Unlock()

	s.logger.Info("session revoked",
		slog.String("username", string(session.Username)),
		slog.String("session_id", session.ID))
}

// CleanRevoked forgets revocations whose tokens have expired anyway (call periodically)
func (s *Service) CleanRevoked() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, expires := range s.revoked {
		if !now.Before(expires) {
			delete(s.revoked, id)
		}
	}
}

// RevokedCount returns the number of tracked revocations
func (s *Service) RevokedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.revoked)
}
