package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewPublisher dials the broker and declares the durable queue. Call
// with an empty uri to disable publishing (returns nil, nil); a nil
// *Publisher is safe to use.
func NewPublisher(uri, queue string) (*Publisher, error) {
	if uri == "" {
		return nil, nil
	}
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

// Close releases the channel and the broker connection. Safe on nil.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.ch.Close()
	p.conn.Close()
}

// Publish sends the message to the queue. Failures are logged, not
// returned: an audit gap must not fail the business operation.
func (p *Publisher) Publish(ctx context.Context, m Message) {
	if p == nil {
		return
	}
	body, err := json.Marshal(m)
	if err != nil {
		log.Printf("[events] marshal %s: %v", m.Type, err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		log.Printf("[events] publish %s: %v", m.Type, err)
	}
}
