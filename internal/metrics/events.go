package metrics

import (
	"context"

	"github.com/yamiko-app/yamiko/internal/event"
	"github.com/yamiko-app/yamiko/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.ProgressionExpAwarded,
		event.ProgressionLevelUp,
		event.ProgressionExpGranted,
		event.EconomyRubiesGranted,
		event.GachaRatesUpdated,
		event.GachaRolled,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics. Undecodable payloads are
// counted as handler errors but never fail the publisher.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	if err := record(evt); err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		logger.FromContext(ctx).Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
	}
	return nil
}

func record(evt event.Event) error {
	switch evt.Type {
	case event.ProgressionExpAwarded:
		p, err := event.DecodePayload[event.ExpAwardedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		ExpAwarded.WithLabelValues(SourceGameplay).Add(float64(p.Amount))

	case event.ProgressionExpGranted:
		p, err := event.DecodePayload[event.ExpGrantedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		ExpAwarded.WithLabelValues(SourceGrant).Add(float64(p.Amount))

	case event.ProgressionLevelUp:
		p, err := event.DecodePayload[event.LevelUpPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		if gained := p.NewLevel - p.OldLevel; gained > 0 {
			LevelUps.Add(float64(gained))
		}

	case event.EconomyRubiesGranted:
		p, err := event.DecodePayload[event.RubiesGrantedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		RubiesGranted.Add(float64(p.Amount))

	case event.GachaRatesUpdated:
		p, err := event.DecodePayload[event.RatesUpdatedPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		DropRateUpdates.WithLabelValues(p.PackType).Inc()

	case event.GachaRolled:
		p, err := event.DecodePayload[event.RolledPayloadV1](evt.Payload)
		if err != nil {
			return err
		}
		GachaRolls.WithLabelValues(p.PackType, p.Tier).Inc()
	}
	return nil
}
