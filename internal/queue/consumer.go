// This file contains the background consumer that listens to the
// booking.events queue and writes notification lines to
// logs/notifications.log, standing in for downstream topic subscribers.
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartNotificationConsumer connects to the broker, declares the durable
// booking.events queue, and starts consuming. Each message is appended to
// logs/notifications.log in a single-line, human-friendly format. The
// function runs a reconnect loop with capped backoff and keeps running for
// the life of the process; processing errors are logged and the offending
// message rejected without requeue so the server continues operating.
func StartNotificationConsumer(url string, log *zap.Logger) {
	if url == "" {
		url = os.Getenv("RABBITMQ_URL")
	}
	if url == "" {
		log.Info("notification-consumer: no broker configured, consumer disabled")
		return
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("notification-consumer: failed to dial broker",
				zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, log); err != nil {
			log.Warn("notification-consumer: consume loop ended, reconnecting", zap.Error(err))
			_ = conn.Close()
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection, log *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("notification-consumer: set QoS failed", zap.Error(err))
	}

	if _, err := ch.QueueDeclare(eventsQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(eventsQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Warn("notification-consumer: handle message failed", zap.Error(err))
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "notifications.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	seats := strings.Join(ev.Seats, ",")

	var line string
	switch ev.Type {
	case TypePaymentConfirmed:
		line = fmt.Sprintf("[%s] Payment confirmed | user=%s | movie=%q | seats=[%s] | method=%s | ref=%s | total=%d\n",
			ev.OccurredAt, ev.Email, ev.Movie, seats, ev.Method, ev.PaymentRef, ev.Total)
	default:
		line = fmt.Sprintf("[%s] New booking | user=%s | movie=%q | seats=[%s] | total=%d\n",
			ev.OccurredAt, ev.Email, ev.Movie, seats, ev.Total)
	}

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
