package event

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	handled := false

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		if event.Type != eventType {
			t.Errorf("Expected event type %s, got %s", eventType, event.Type)
		}
		if event.Payload.(string) != "payload" {
			t.Errorf("Expected payload 'payload', got %v", event.Payload)
		}
		handled = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Version: "1.0",
		Type:    eventType,
		Payload: "payload",
	})

	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if !handled {
		t.Error("Handler was not called")
	}
}

func TestMemoryBus_PublishMultipleHandlers(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")
	count := 0

	handler := func(ctx context.Context, event Event) error {
		count++
		return nil
	}

	bus.Subscribe(eventType, handler)
	bus.Subscribe(eventType, handler)

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err != nil {
		t.Errorf("Publish returned error: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 handlers to be called, got %d", count)
	}
}

func TestMemoryBus_PublishError(t *testing.T) {
	bus := NewMemoryBus()
	eventType := Type("test_event")

	bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
		return errors.New("handler error")
	})

	err := bus.Publish(context.Background(), Event{Version: "1.0", Type: eventType})
	if err == nil {
		t.Error("Expected error from Publish, got nil")
	}
}

func TestMemoryBus_NoSubscribers(t *testing.T) {
	bus := NewMemoryBus()

	err := bus.Publish(context.Background(), NewLevelUpEvent("u1", 1, 2, 50))
	if err != nil {
		t.Errorf("Publish with no subscribers returned error: %v", err)
	}
}

func TestDecodePayload_TypedAndSerialized(t *testing.T) {
	evt := NewRubiesGrantedEvent("u1", 100, "refund", 250)

	typed, err := DecodePayload[RubiesGrantedPayloadV1](evt.Payload)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if typed.Amount != 100 || typed.Balance != 250 || typed.Reason != "refund" {
		t.Errorf("Unexpected payload: %+v", typed)
	}

	// A payload that went through JSON arrives as a generic map
	generic := map[string]interface{}{
		"user_id":   "u2",
		"old_level": 3,
		"new_level": 5,
	}
	decoded, err := DecodePayload[LevelUpPayloadV1](generic)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if decoded.UserID != "u2" || decoded.OldLevel != 3 || decoded.NewLevel != 5 {
		t.Errorf("Unexpected payload: %+v", decoded)
	}
}

func TestDecodePayload_PointerAndNil(t *testing.T) {
	payload := &ExpAwardedPayloadV1{UserID: "u3", Amount: 40}

	decoded, err := DecodePayload[ExpAwardedPayloadV1](payload)
	if err != nil {
		t.Fatalf("DecodePayload returned error: %v", err)
	}
	if decoded.UserID != "u3" || decoded.Amount != 40 {
		t.Errorf("Unexpected payload: %+v", decoded)
	}

	if _, err := DecodePayload[ExpAwardedPayloadV1](nil); !errors.Is(err, ErrNilPayload) {
		t.Errorf("expected ErrNilPayload for nil, got %v", err)
	}

	var nilPtr *ExpAwardedPayloadV1
	if _, err := DecodePayload[ExpAwardedPayloadV1](nilPtr); !errors.Is(err, ErrNilPayload) {
		t.Errorf("expected ErrNilPayload for nil pointer, got %v", err)
	}
}
