package queue

import (
	"context"
	"encoding/json"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const eventsQueueName = "booking.events"

// Publisher sends notification events to the broker. Publishing is
// best-effort: every error is logged and returned so the caller can ignore
// it without interrupting the request flow. A nil *Publisher (broker not
// configured) silently drops events.
type Publisher struct {
	url string
	log *zap.Logger
}

// NewPublisher returns a Publisher for the given broker URL, or nil when no
// URL is configured anywhere.
func NewPublisher(url string, log *zap.Logger) *Publisher {
	if url == "" {
		url = os.Getenv("RABBITMQ_URL")
	}
	if url == "" {
		return nil
	}
	return &Publisher{url: url, log: log}
}

// Publish declares the durable booking.events queue and sends one
// persistent JSON message. The connection is dialed per publish; the
// function never panics and never blocks past broker defaults.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	if p == nil {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive
	// broker restarts.
	if _, err := ch.QueueDeclare(
		eventsQueueName, // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("rabbitmq: marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",              // default exchange
		eventsQueueName, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		pub,
	); err != nil {
		p.log.Warn("rabbitmq: publish failed", zap.Error(err))
		return err
	}

	return nil
}
