package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Publisher sends recompute requests and match events
type Publisher struct {
	conn *amqp.Connection
	mu   sync.Mutex
	ch   *amqp.Channel
}

// NewPublisher dials RabbitMQ and declares the exchange and queue it uses
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		UpdatesExchange, // name
		"topic",         // kind
		true,            // durable
		false,           // auto-delete
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	); err != nil {
		return fmt.Errorf("declaring exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		RecomputeQueue, // name
		true,           // durable
		false,          // auto-delete
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	); err != nil {
		return fmt.Errorf("declaring queue: %w", err)
	}
	return nil
}

// RequestRecompute queues a re-rank of one user's jobs
func (p *Publisher) RequestRecompute(ctx context.Context, userID uuid.UUID) error {
	return p.publish(ctx, "", RecomputeQueue, RecomputeRequest{
		UserID:      userID.String(),
		RequestedAt: time.Now().UTC(),
	})
}

// RequestRecomputeAll queues a re-rank of every user
func (p *Publisher) RequestRecomputeAll(ctx context.Context) error {
	return p.publish(ctx, "", RecomputeQueue, RecomputeRequest{RequestedAt: time.Now().UTC()})
}

// PublishMatchUpdate announces fresh scores on match_updates as user.<id>
func (p *Publisher) PublishMatchUpdate(ctx context.Context, ev MatchEvent) error {
	return p.publish(ctx, UpdatesExchange, routingKey(ev.UserID), ev)
}

func (p *Publisher) publish(ctx context.Context, exchange, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.Publish(
		exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publishing to %q: %w", key, err)
	}
	return nil
}

// Close shuts the channel and connection
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
