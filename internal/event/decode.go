package event

import (
	"encoding/json"
	"errors"
)

// ErrNilPayload is returned when an event carries no payload at all
var ErrNilPayload = errors.New("event payload is nil")

// DecodePayload returns an event payload as T. In-process publishers hand
// over T or *T directly; anything else (a map from a serialized source, say)
// is converted through a JSON round-trip.
func DecodePayload[T any](input interface{}) (T, error) {
	var result T
	switch v := input.(type) {
	case nil:
		return result, ErrNilPayload
	case T:
		return v, nil
	case *T:
		if v == nil {
			return result, ErrNilPayload
		}
		return *v, nil
	}

	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
