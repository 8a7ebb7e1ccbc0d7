package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yamiko-app/yamiko/internal/event"
	"github.com/yamiko-app/yamiko/internal/logger"
	"github.com/yamiko-app/yamiko/internal/metrics"
)

// InitializeEventSystem creates the event bus and registers every subscriber:
// the Prometheus collector and a structured log line per level-up.
func InitializeEventSystem() (event.Bus, error) {
	bus := event.NewMemoryBus()

	if err := metrics.NewEventMetricsCollector().Register(bus); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	bus.Subscribe(event.ProgressionLevelUp, logLevelUp)

	slog.Info(LogMsgEventSystemInitialized)
	return bus, nil
}

func logLevelUp(ctx context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.LevelUpPayloadV1](evt.Payload)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info(LogMsgLevelUp,
		"user_id", p.UserID,
		"old_level", p.OldLevel,
		"new_level", p.NewLevel,
		"energy_reward", p.EnergyReward)
	return nil
}
