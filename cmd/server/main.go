package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/lfg/internal/api"
	"github.com/mcoot/lfg/internal/config"
	"github.com/mcoot/lfg/internal/factory"
)

// revokedSweepInterval is how often expired logout entries are dropped
const revokedSweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// run serves until a signal or a server error. Deferred cleanup always runs
// before main decides the exit code.
func run(cfg *config.Config, logger *slog.Logger) error {
	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app, err := factory.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close application", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		Directory:       app.Directory,
		AuthService:     app.AuthService,
		LobbyController: app.LobbyController,
		AdvisorService:  app.AdvisorService,
		EventHub:        app.EventHub,
		Metrics:         app.Metrics,
		AllowedOrigins:  cfg.CORSOrigins,
	})

	server := api.NewServer(router, api.ServerConfigFrom(cfg), logger)
	server.OnShutdown(app.EventHub.Close)

	go sweepRevoked(ctx, app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", cfg.Addr()), slog.String("storage", cfg.Storage))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return server.Shutdown(context.Background())
	}
}

func sweepRevoked(ctx context.Context, app *factory.App) {
	ticker := time.NewTicker(revokedSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.AuthService.CleanRevoked()
		}
	}
}
