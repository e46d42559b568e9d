// Package service contains the event publisher that hands domain events
// to RabbitMQ. Publish errors are logged and returned so callers can
// ignore failures without interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/tudduke/ministry-platform/internal/queue"
)

// Publisher sends envelopes to the ministry.notify queue. A nil Publisher
// is valid and drops every event, which keeps handlers free of broker
// checks when messaging is disabled.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher for the given AMQP URL, or nil when the
// URL is empty so callers can treat messaging as disabled.
func NewPublisher(url string) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{url: url}
}

// Publish sends a single event synchronously. It dials per call, declares
// the durable queue (idempotent), and marks the message persistent. Any
// error is logged and returned.
func (p *Publisher) Publish(ctx context.Context, event string, payload interface{}) error {
	if p == nil {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		q.NotifyQueueName, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(q.Envelope{Event: event, At: time.Now().UTC(), Payload: payload})
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                // default exchange
		q.NotifyQueueName, // routing key = queue name
		false,             // mandatory
		false,             // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// Emit publishes the event on a background goroutine with its own timeout
// so request handlers never block on the broker.
func (p *Publisher) Emit(event string, payload interface{}) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = p.Publish(ctx, event, payload)
	}()
}
