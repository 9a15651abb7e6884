// Package events publishes domain events (searches run, cards moved) to the
// message bus. Publishing is fire-and-forget: callers log failures and
// carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event types.
const (
	JobsSearched       = "EVENT_JOBS_SEARCHED"
	ApplicationMoved   = "EVENT_APPLICATION_MOVED"
	ApplicationCreated = "EVENT_APPLICATION_CREATED"
)

// Publisher sends one event. topic is also the event type.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload map[string]any) error
}

// encode adds the "type" field and marshals the payload.
func encode(topic string, payload map[string]any) ([]byte, error) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["type"] = topic
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", topic, err)
	}
	return b, nil
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, map[string]any) error { return nil }
