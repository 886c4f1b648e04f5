package rabbit

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// RabbitBroker implements broker.Broker over a RabbitMQ connection.
// Each topic maps to a durable direct exchange and a queue of the same
// name bound with the topic as routing key.
type RabbitBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  *zerolog.Logger
}

// New dials RabbitMQ and opens a channel.
func New(url string, logger *zerolog.Logger) (*RabbitBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &RabbitBroker{conn: conn, ch: ch, log: logger}, nil
}

// Close shuts down the channel and connection.
func (b *RabbitBroker) Close() error {
	if err := b.ch.Close(); err != nil {
		_ = b.conn.Close()
		return err
	}
	return b.conn.Close()
}

func (b *RabbitBroker) declare(topic string) error {
	if err := b.ch.ExchangeDeclare(topic, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", topic, err)
	}
	if _, err := b.ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", topic, err)
	}
	if err := b.ch.QueueBind(topic, topic, topic, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", topic, err)
	}
	return nil
}

// Publish sends a payload to the topic's exchange.
func (b *RabbitBroker) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.declare(topic); err != nil {
		return err
	}
	err := b.ch.PublishWithContext(ctx, topic, topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe consumes the topic's queue and feeds payloads to handler.
// Messages are acked after the handler returns.
func (b *RabbitBroker) Subscribe(topic string, handler func(payload []byte)) error {
	if err := b.declare(topic); err != nil {
		return err
	}
	if err := b.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := b.ch.Consume(topic, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", topic, err)
	}

	go func() {
		for d := range deliveries {
			handler(d.Body)
			if err := d.Ack(false); err != nil {
				b.log.Warn().Err(err).Str("topic", topic).Msg("ack failed")
			}
		}
		b.log.Info().Str("topic", topic).Msg("broker deliveries channel closed")
	}()

	return nil
}
