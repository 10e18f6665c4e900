package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/lfg/internal/api/sse"
	"github.com/mcoot/lfg/internal/config"
	"github.com/mcoot/lfg/internal/dependencies/clock"
	"github.com/mcoot/lfg/internal/dependencies/random"
	"github.com/mcoot/lfg/internal/metrics"
	"github.com/mcoot/lfg/internal/services/advisor"
	"github.com/mcoot/lfg/internal/services/auth"
	"github.com/mcoot/lfg/internal/services/credentials"
	"github.com/mcoot/lfg/internal/services/directory"
	"github.com/mcoot/lfg/internal/services/lobby"
	"github.com/mcoot/lfg/internal/storage"
	"github.com/mcoot/lfg/internal/storage/jsonfile"
	"github.com/mcoot/lfg/internal/storage/memory"
	mongostorage "github.com/mcoot/lfg/internal/storage/mongo"
	"github.com/mcoot/lfg/internal/storage/objectstore"
	"github.com/mcoot/lfg/internal/storage/postgres"
	redisstorage "github.com/mcoot/lfg/internal/storage/redis"
)

// sessionSecretBytes is the length of the generated fallback secret
const sessionSecretBytes = 32

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Completer advisor.Completer

	// Services
	Directory       *directory.Service
	AuthService     *auth.Service
	LobbyController *lobby.Controller
	AdvisorService  *advisor.Service
	EventHub        *sse.Hub
	Metrics         *metrics.Metrics

	closers []func() error
}

// Settings holds what newWithDependencies needs beyond the dependencies themselves
type Settings struct {
	Hasher      credentials.Hasher
	Directory   directory.Config
	Auth        auth.Config
	Advisor     advisor.Config
	MetricsSink *metrics.Metrics
}

// New creates a new application with all dependencies wired from cfg
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closer, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}

	clk := clock.New()
	rnd := random.New()

	var completer advisor.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = advisor.NewOpenAICompleter(advisor.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
	} else {
		logger.Warn("OPENAI_API_KEY not set, suggestions are disabled")
	}

	app := newWithDependencies(store, clk, rnd, completer, Settings{
		Hasher:    credentials.NewBcrypt(bcrypt.DefaultCost),
		Directory: directory.Config{EmailDomain: cfg.EmailDomain},
		Auth: auth.Config{
			SessionDuration: cfg.SessionTTL,
			Secret:          cfg.SessionSecret,
		},
		Advisor: advisor.Config{
			Timeout:     cfg.AdvisorTimeout,
			Concurrency: cfg.AdvisorWorkers,
		},
	}, logger)
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	logger.Info("application wired",
		slog.String("storage", cfg.Storage),
		slog.Bool("advisor", completer != nil))
	return app, nil
}

// openStorage builds the configured backend. The returned closer may be nil.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, func() error, error) {
	switch cfg.Storage {
	case config.StorageMemory, "":
		return memory.New(), nil, nil

	case config.StorageFile:
		store, err := jsonfile.New(cfg.DataDir, logger)
		return store, nil, err

	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		store, blobs, err := redisstorage.New(redisCfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, blobs.Close, nil

	case config.StoragePostgres:
		store, blobs, err := postgres.New(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { blobs.Close(); return nil }, nil

	case config.StorageMongo:
		store, blobs, err := mongostorage.New(ctx, cfg.MongoURI, cfg.MongoDB, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return blobs.Close(context.Background()) }, nil

	case config.StorageS3:
		store, _, err := objectstore.New(ctx, objectstore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		}, logger)
		return store, nil, err

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	completer advisor.Completer,
	settings Settings,
	logger *slog.Logger,
) *App {
	m := settings.MetricsSink
	if m == nil {
		m = metrics.New(nil)
	}
	hasher := settings.Hasher
	if hasher == nil {
		hasher = credentials.NewBcrypt(bcrypt.DefaultCost)
	}

	authCfg := settings.Auth
	if authCfg.Secret == "" {
		authCfg.Secret = rnd.Token(sessionSecretBytes)
		logger.Warn("LFG_SESSION_SECRET not set, sessions will not survive a restart")
	}

	dir := directory.New(store, hasher, clk, settings.Directory, logger)
	authService := auth.New(dir, clk, authCfg, logger)

	hub := sse.NewHub(m, logger)
	go hub.Run()

	lobbyController := lobby.NewController(store, dir, clk, hub, m, logger)
	advisorService := advisor.New(store, dir, completer, settings.Advisor, m, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Completer:       completer,
		Directory:       dir,
		AuthService:     authService,
		LobbyController: lobbyController,
		AdvisorService:  advisorService,
		EventHub:        hub,
		Metrics:         m,
		closers:         []func() error{func() error { hub.Close(); return nil }},
	}
}

// Close stops the event hub and releases storage connections
func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
