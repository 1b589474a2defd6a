// Package events carries evidence pipeline events between producers and consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindObjectFinalized Kind = "storage.object.finalized"
	KindAnalysisCreated Kind = "evidence.analysis.created"
)

type Event struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

func New(kind Kind, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Kind, err)
	}
	return nil
}

type Handler func(ctx context.Context, e Event)

type Bus interface {
	Publish(ctx context.Context, e Event) error
	// StartForwarder hands queued events to onEvent until ctx is done or the bus closes.
	// Forwarders share one queue: each event reaches a single forwarder, and onEvent runs
	// on the forwarder's goroutine.
	StartForwarder(ctx context.Context, onEvent Handler) error
	Close() error
}
