package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/streadway/amqp"
)

// DefaultExchange is the topic exchange events are published to.
const DefaultExchange = "jobsearch_events"

// AMQPPublisher publishes to a RabbitMQ topic exchange. The routing key is
// the event type lower-cased with dots, e.g. "event.jobs.searched".
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
}

// DialAMQP connects to url and declares the exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, exchange: exchange}, nil
}

// RoutingKey maps an event type onto its routing key.
func RoutingKey(topic string) string {
	return strings.ReplaceAll(strings.ToLower(topic), "_", ".")
}

// Publish opens a channel per call; amqp channels are not safe for
// concurrent use.
func (p *AMQPPublisher) Publish(_ context.Context, topic string, payload map[string]any) error {
	msg, err := publishing(topic, payload)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(p.exchange, RoutingKey(topic), false, false, msg)
}

func publishing(topic string, payload map[string]any) (amqp.Publishing, error) {
	body, err := encode(topic, payload)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         topic,
		Body:         body,
	}, nil
}

// Close closes the connection.
func (p *AMQPPublisher) Close() error {
	return p.conn.Close()
}
