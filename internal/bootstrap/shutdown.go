package bootstrap

import (
	"context"
	"log/slog"

	"github.com/yamiko-app/yamiko/internal/droprate"
	"github.com/yamiko-app/yamiko/internal/progression"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             stoppable
	ProgressionService progression.Service
	DropRateService    droprate.Service
	Storage            *Storage
}

type stoppable interface {
	Stop(context.Context) error
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests, drain in-flight ones)
// 2. Application services
// 3. Storage (close the pool once nothing can use it)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.ProgressionService != nil {
		shutdownService(ctx, ServiceNameProgression, components.ProgressionService)
	}
	if components.DropRateService != nil {
		shutdownService(ctx, ServiceNameDropRate, components.DropRateService)
	}

	if components.Storage != nil {
		slog.Info(LogMsgClosingStorage)
		components.Storage.Close()
	}

	slog.Info(LogMsgServerStopped)
}

type shutdownableService interface {
	Shutdown(context.Context) error
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgServiceShutdownFailed, "error", err)
	}
}
