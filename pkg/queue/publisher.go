// Package queue publishes settlement events to RabbitMQ. Publishing is
// best-effort: a broker outage is logged and must never block or roll back
// a commit that has already succeeded.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"book-your-show/pkg/utils"
)

// SettledEvent is emitted once per committed reservation, after tickets
// have been issued. Downstream consumers render receipts and documents,
// which is outside this engine.
type SettledEvent struct {
	ReservationID string    `json:"reservation_id"`
	EventID       string    `json:"event_id"`
	SeatIDs       []string  `json:"seat_ids"`
	PaymentRef    string    `json:"payment_ref"`
	Total         float64   `json:"total"`
	SettledAt     time.Time `json:"settled_at"`
}

type Publisher interface {
	PublishSettled(ctx context.Context, event SettledEvent) error
	Close()
}

type publisher struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
	log       *zap.Logger
}

// NewPublisher dials the broker and declares a durable queue. Returns an
// error when the broker is unreachable; the caller decides whether to run
// without a publisher.
func NewPublisher(config utils.QueueConfig, log *zap.Logger) (Publisher, error) {
	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		config.QueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", config.QueueName, err)
	}

	return &publisher{
		conn:      conn,
		channel:   ch,
		queueName: config.QueueName,
		log:       log.With(zap.String("component", "queue_publisher")),
	}, nil
}

func (p *publisher) PublishSettled(ctx context.Context, event SettledEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode settled event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		"",          // default exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		p.log.Error("Failed to publish settled event",
			zap.Error(err),
			zap.String("reservation_id", event.ReservationID),
		)
		return fmt.Errorf("publish settled event: %w", err)
	}

	p.log.Info("Settled event published",
		zap.String("reservation_id", event.ReservationID),
		zap.String("payment_ref", event.PaymentRef),
	)
	return nil
}

func (p *publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

type nopPublisher struct{}

// NewNopPublisher is a stand-in used when the broker is unreachable at
// startup. Settled events are dropped.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishSettled(ctx context.Context, event SettledEvent) error { return nil }
func (nopPublisher) Close()                                                       {}
