package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultQueue is the durable queue reservation events are published to.
const DefaultQueue = "reservations.events"

// RabbitPublisher publishes events to a durable RabbitMQ queue through the
// default exchange.  Each publish opens its own connection so a broker
// outage never leaves a stale channel behind.
type RabbitPublisher struct {
	URL   string
	Queue string
}

// NewRabbitPublisher returns a publisher for url and queue.  An empty queue
// name selects DefaultQueue.
func NewRabbitPublisher(url, queue string) *RabbitPublisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &RabbitPublisher{URL: url, Queue: queue}
}

// Publish sends ev as a persistent JSON message.  Errors are logged and
// returned so the caller can choose to ignore them.
func (p *RabbitPublisher) Publish(ctx context.Context, ev Event) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		slog.Warn("rabbitmq: dial failed", slog.Any("error", err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		slog.Warn("rabbitmq: channel open failed", slog.Any("error", err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		slog.Warn("rabbitmq: queue declare failed", slog.String("queue", p.Queue), slog.Any("error", err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		slog.Warn("rabbitmq: publish failed", slog.String("type", ev.Type), slog.Any("error", err))
		return err
	}
	return nil
}
