package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// Common event types
const (
	ProgressionLevelUp    Type = "progression.level_up"
	ProgressionExpAwarded Type = "progression.exp_awarded"
	ProgressionExpGranted Type = "progression.exp_granted"
	EconomyRubiesGranted  Type = "economy.rubies_granted"
	GachaRatesUpdated     Type = "gacha.rates_updated"
	GachaRolled           Type = "gacha.rolled"
)

// Typed event payloads for type safety

// ExpAwardedPayloadV1 is emitted for every successful EXP award
type ExpAwardedPayloadV1 struct {
	UserID       string `json:"user_id"`
	Amount       int64  `json:"amount"`
	Level        int    `json:"level"`
	LevelsGained int    `json:"levels_gained"`
	Timestamp    int64  `json:"timestamp"`
}

// LevelUpPayloadV1 is the typed payload for level up events
type LevelUpPayloadV1 struct {
	UserID       string `json:"user_id"`
	OldLevel     int    `json:"old_level"`
	NewLevel     int    `json:"new_level"`
	EnergyReward int    `json:"energy_reward"`
	Timestamp    int64  `json:"timestamp"`
}

// ExpGrantedPayloadV1 is the typed payload for administrative EXP grants
type ExpGrantedPayloadV1 struct {
	UserID    string `json:"user_id"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
}

// RubiesGrantedPayloadV1 is the typed payload for ruby grants
type RubiesGrantedPayloadV1 struct {
	UserID    string `json:"user_id"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	Balance   int64  `json:"balance"`
	Timestamp int64  `json:"timestamp"`
}

// RatesUpdatedPayloadV1 is the typed payload for drop-rate table replacements
type RatesUpdatedPayloadV1 struct {
	PackType  string             `json:"pack_type"`
	Rates     map[string]float64 `json:"rates"`
	Timestamp int64              `json:"timestamp"`
}

// RolledPayloadV1 is the typed payload for a single gacha roll
type RolledPayloadV1 struct {
	PackType string `json:"pack_type"`
	Tier     string `json:"tier"`
}

// Type-safe event constructors

// NewExpAwardedEvent creates a new EXP awarded event
func NewExpAwardedEvent(userID string, amount int64, level, levelsGained int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ProgressionExpAwarded,
		Payload: ExpAwardedPayloadV1{
			UserID:       userID,
			Amount:       amount,
			Level:        level,
			LevelsGained: levelsGained,
			Timestamp:    time.Now().Unix(),
		},
	}
}

// NewLevelUpEvent creates a new level up event
func NewLevelUpEvent(userID string, oldLevel, newLevel, energyReward int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ProgressionLevelUp,
		Payload: LevelUpPayloadV1{
			UserID:       userID,
			OldLevel:     oldLevel,
			NewLevel:     newLevel,
			EnergyReward: energyReward,
			Timestamp:    time.Now().Unix(),
		},
	}
}

// NewExpGrantedEvent creates a new EXP granted event
func NewExpGrantedEvent(userID string, amount int64, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ProgressionExpGranted,
		Payload: ExpGrantedPayloadV1{
			UserID:    userID,
			Amount:    amount,
			Reason:    reason,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewRubiesGrantedEvent creates a new rubies granted event
func NewRubiesGrantedEvent(userID string, amount int64, reason string, balance int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    EconomyRubiesGranted,
		Payload: RubiesGrantedPayloadV1{
			UserID:    userID,
			Amount:    amount,
			Reason:    reason,
			Balance:   balance,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewRatesUpdatedEvent creates a new drop-rate update event
func NewRatesUpdatedEvent(packType string, rates map[string]float64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GachaRatesUpdated,
		Payload: RatesUpdatedPayloadV1{
			PackType:  packType,
			Rates:     rates,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewRolledEvent creates a new gacha roll event
func NewRolledEvent(packType, tier string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GachaRolled,
		Payload: RolledPayloadV1{
			PackType: packType,
			Tier:     tier,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers.
// Handlers run synchronously on the caller's goroutine.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
