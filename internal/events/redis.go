package events

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes on the Redis channel named after the event.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher returns a publisher over rdb.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, topic string, payload map[string]any) error {
	body, err := encode(topic, payload)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, topic, body).Err()
}
