// Package advisor recommends a lobby to a player with the help of a language
// model. It only reads the stores.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/mcoot/lfg/internal/metrics"
	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/services/membership"
	"github.com/mcoot/lfg/internal/storage"
)

// Fixed suggestion texts
const (
	TextNoLobbies     = "No lobbies available for analysis."
	TextNoCandidates  = "No suitable lobbies found for your rating and role."
	TextNotConfigured = "AI suggestions are not configured."
	errorPrefix       = "AI Error: "
)

// Metric outcomes
const (
	OutcomeOK            = "ok"
	OutcomeError         = "error"
	OutcomeNoLobbies     = "no_lobbies"
	OutcomeNoCandidates  = "no_candidates"
	OutcomeNotConfigured = "not_configured"
)

// AccountLookup resolves the current account for a username
type AccountLookup interface {
	GetAccount(ctx context.Context, username model.Username) (*model.Account, error)
}

// Suggestion is the advisor's answer. Text is always set.
type Suggestion struct {
	Text        string
	Recommended model.LobbyName // Empty unless the text names a candidate
	Candidates  []model.Lobby
	Err         error
}

// Config holds advisor limits
type Config struct {
	Timeout     time.Duration
	Concurrency int64
}

// DefaultConfig returns default advisor configuration
func DefaultConfig() Config {
	return Config{
		Timeout:     30 * time.Second,
		Concurrency: 4,
	}
}

// Service builds prompts from the registry and asks the completer
type Service struct {
	storage   storage.Storage
	accounts  AccountLookup
	completer Completer
	metrics   *metrics.Metrics
	logger    *slog.Logger

	timeout time.Duration
	sem     *semaphore.Weighted
}

// New creates an advisor Service. A nil completer yields TextNotConfigured.
func New(store storage.Storage, accounts AccountLookup, completer Completer, cfg Config, m *metrics.Metrics, logger *slog.Logger) *Service {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	return &Service{
		storage:   store,
		accounts:  accounts,
		completer: completer,
		metrics:   m,
		logger:    logger.With(slog.String("component", "advisor")),
		timeout:   cfg.Timeout,
		sem:       semaphore.NewWeighted(cfg.Concurrency),
	}
}

// Suggest recommends a lobby for username. Failures are reported in the
// returned text rather than as an error.
func (s *Service) Suggest(ctx context.Context, username model.Username) Suggestion {
	registry, err := s.storage.LoadLobbies(ctx)
	if err != nil {
		return s.failed(username, err)
	}
	if len(registry) == 0 {
		s.metrics.AdvisorRequest(OutcomeNoLobbies)
		return Suggestion{Text: TextNoLobbies}
	}

	account, err := s.accounts.GetAccount(ctx, username)
	if err != nil {
		return s.failed(username, err)
	}

	candidates := membership.Joinable(*account, registry)
	if len(candidates) == 0 {
		s.metrics.AdvisorRequest(OutcomeNoCandidates)
		return Suggestion{Text: TextNoCandidates}
	}

	if s.completer == nil {
		s.metrics.AdvisorRequest(OutcomeNotConfigured)
		return Suggestion{Text: TextNotConfigured, Candidates: candidates}
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return s.failed(username, err)
	}
	defer s.sem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.completer.Complete(callCtx, BuildPrompt(*account, candidates))
	if err != nil {
		return s.failed(username, err)
	}

	recommended, _ := ParseRecommendation(text, candidates)
	s.metrics.AdvisorRequest(OutcomeOK)
	s.logger.Info("suggestion produced",
		slog.String("username", string(username)),
		slog.Int("candidates", len(candidates)),
		slog.String("recommended", string(recommended)),
		slog.Duration("duration", time.Since(start)))
	return Suggestion{Text: text, Recommended: recommended, Candidates: candidates}
}

// SuggestAsync runs Suggest in its own goroutine. The channel yields exactly
// one Suggestion.
func (s *Service) SuggestAsync(ctx context.Context, username model.Username) <-chan Suggestion {
	out := make(chan Suggestion, 1)
	go func() {
		defer close(out)
		out <- s.Suggest(ctx, username)
	}()
	return out
}

func (s *Service) failed(username model.Username, err error) Suggestion {
	s.metrics.AdvisorRequest(OutcomeError)
	s.logger.Warn("suggestion failed",
		slog.String("username", string(username)),
		slog.String("error", err.Error()))
	return Suggestion{
		Text: fmt.Sprintf("%s%s", errorPrefix, err.Error()),
		Err:  err,
	}
}
