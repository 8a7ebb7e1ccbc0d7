package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/yamiko-app/yamiko/docs"
	"github.com/yamiko-app/yamiko/internal/bootstrap"
	"github.com/yamiko-app/yamiko/internal/config"
	"github.com/yamiko-app/yamiko/internal/droprate"
	"github.com/yamiko-app/yamiko/internal/progression"
	"github.com/yamiko-app/yamiko/internal/server"
)

// @title Yamiko API
// @version 1.0
// @description Progression engine and gacha drop-rate service.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logCloser, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg); err != nil {
		slog.Error("Yamiko exited with error", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus, err := bootstrap.InitializeEventSystem()
	if err != nil {
		return err
	}

	storage, err := bootstrap.InitializeStorage(ctx, cfg)
	if err != nil {
		return err
	}

	if err := bootstrap.SeedDropRates(ctx, storage.DropRates, cfg.DropRatesFile); err != nil {
		storage.Close()
		return err
	}
	if err := bootstrap.SeedUsers(ctx, storage.Progression, cfg.SeedUsers); err != nil {
		storage.Close()
		return err
	}

	progressionService := progression.NewService(storage.Progression, bus, progression.WithMaxEnergy(cfg.MaxEnergy))
	dropRateService := droprate.NewService(storage.DropRates, bus)

	srv := server.NewServer(server.Config{
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Port:        cfg.Port,
		APIKey:      cfg.APIKey,
	}, storage.Pool, progressionService, dropRateService)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), bootstrap.ShutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		ProgressionService: progressionService,
		DropRateService:    dropRateService,
		Storage:            storage,
	})
	return runErr
}
