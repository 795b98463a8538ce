package eventbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/neutron-labs/inventory-service/pkg/config"
	"github.com/neutron-labs/inventory-service/pkg/logger"
)

// Publisher is the capability the stock service depends on; the broker
// connection lifecycle stays with process bootstrap.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// RabbitMQ owns a broker connection and a confirm-mode channel bound to the
// stock topic exchange.
type RabbitMQ struct {
	cfg           config.AMQPConfig
	conn          *amqp.Connection
	channel       *amqp.Channel
	notifyConfirm chan amqp.Confirmation
	logg          *logger.Logger
}

// NewRabbitMQ dials the broker, opens a confirm-mode channel and declares the
// durable stock exchange.
func NewRabbitMQ(ctx context.Context, cfg config.AMQPConfig, logg *logger.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel could not be put into confirm mode: %w", err)
	}
	notifyConfirm := channel.NotifyPublish(make(chan amqp.Confirmation, 1))

	err = channel.ExchangeDeclare(
		cfg.StockExchange, // name
		cfg.ExchangeType,  // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.StockExchange, err)
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"exchange": cfg.StockExchange,
			"type":     cfg.ExchangeType,
		})
		logg.Info(ctx, "rabbitmq exchange declared")
	}

	return &RabbitMQ{
		cfg:           cfg,
		conn:          conn,
		channel:       channel,
		notifyConfirm: notifyConfirm,
		logg:          logg,
	}, nil
}

// Publish sends a plain-text message to the stock exchange under the given
// routing key and waits for the broker confirmation.
func (r *RabbitMQ) Publish(ctx context.Context, routingKey string, body []byte) error {
	if r == nil || r.channel == nil {
		return errors.New("publisher not ready")
	}

	err := r.channel.Publish(
		r.cfg.StockExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "text/plain",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	timeout := r.cfg.PublishTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	select {
	case confirm := <-r.notifyConfirm:
		if confirm.Ack {
			return nil
		}
		return errors.New("message published but not confirmed")
	case <-time.After(timeout):
		return errors.New("publish confirmation timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ping reports whether the broker connection is still open.
func (r *RabbitMQ) Ping(context.Context) error {
	if r == nil || r.conn == nil || r.conn.IsClosed() {
		return errors.New("rabbitmq connection closed")
	}
	return nil
}

// Close tears down the channel and connection.
func (r *RabbitMQ) Close() {
	if r == nil {
		return
	}
	if r.channel != nil {
		_ = r.channel.Close()
	}
	if r.conn != nil && !r.conn.IsClosed() {
		_ = r.conn.Close()
	}
}
