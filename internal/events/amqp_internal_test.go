package events

import (
	"encoding/json"
	"testing"

	"github.com/streadway/amqp"
)

func TestPublishing(t *testing.T) {
	msg, err := publishing(JobsSearched, map[string]any{"country": "gb", "total": 3})
	if err != nil {
		t.Fatalf("publishing: %v", err)
	}
	if msg.ContentType != "application/json" || msg.DeliveryMode != amqp.Persistent || msg.Type != JobsSearched {
		t.Errorf("headers = %q %d %q", msg.ContentType, msg.DeliveryMode, msg.Type)
	}

	var body map[string]any
	if err := json.Unmarshal(msg.Body, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["type"] != JobsSearched || body["country"] != "gb" || body["total"] != float64(3) {
		t.Errorf("body = %v", body)
	}
}

func TestPublishing_Unencodable(t *testing.T) {
	if _, err := publishing(JobsSearched, map[string]any{"bad": make(chan int)}); err == nil {
		t.Error("publishing accepted a payload json cannot encode")
	}
}
