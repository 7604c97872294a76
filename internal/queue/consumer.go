package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AuditConsumer listens to the events queue and appends one line per event
// to an audit log file.
type AuditConsumer struct {
	URL    string
	Queue  string
	Path   string
	Logger *slog.Logger
}

// NewAuditConsumer returns a consumer for queue writing to path.
func NewAuditConsumer(url, queue, path string, logger *slog.Logger) *AuditConsumer {
	if queue == "" {
		queue = DefaultQueue
	}
	if path == "" {
		path = filepath.Join("logs", "reservations.log")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditConsumer{URL: url, Queue: queue, Path: path, Logger: logger}
}

// Run connects to RabbitMQ and consumes until ctx is cancelled.  Dial
// failures and dropped connections are retried with exponential backoff
// capped at 30 seconds; Run only returns once ctx is done.
func (c *AuditConsumer) Run(ctx context.Context) error {
	log := c.Logger.With(slog.String("component", "audit-consumer"), slog.String("queue", c.Queue))
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Warn("failed to dial broker", slog.Any("error", err), slog.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		log.Warn("consume loop ended; reconnecting", slog.Any("error", err))
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Logger.Warn("audit-consumer: set QoS failed", slog.Any("error", err))
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(d.Body); err != nil {
				c.Logger.Error("audit-consumer: handle message failed", slog.Any("error", err))
				_ = d.Nack(false, false) // do not requeue; a poison message would loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *AuditConsumer) handleMessage(body []byte) error {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatAuditLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatAuditLine renders ev as a single human friendly log line.
func FormatAuditLine(ev Event) string {
	line := fmt.Sprintf("[%s] %s | id=%s", ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.ID)
	if ev.ReservationID != 0 {
		line += fmt.Sprintf(" | reservation_id=%d", ev.ReservationID)
	}
	if ev.TableID != 0 {
		line += fmt.Sprintf(" | table_id=%d", ev.TableID)
	}
	if ev.Status != "" {
		line += fmt.Sprintf(" | status=%s", ev.Status)
	}
	return line + "\n"
}

// sleep waits for d or until ctx is done and reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
