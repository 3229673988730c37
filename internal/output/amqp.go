package output

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jouaraujo/curry-company/internal/dashboard"
	"github.com/jouaraujo/curry-company/internal/models"
)

// Publisher is the part of *amqp.Channel used to publish reports.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPOutput publishes each table as one persistent JSON message on a topic
// exchange, routed by table name.
type AMQPOutput struct {
	ch       Publisher
	conn     *amqp.Connection
	exchange string
	log      *slog.Logger
}

func NewAMQPOutput(ctx context.Context, cfg models.AMQPConfig, log *slog.Logger) (*AMQPOutput, error) {
	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{Heartbeat: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	log.InfoContext(ctx, "connected to rabbitMQ", "exchange", cfg.Exchange)
	out := NewAMQPOutputWithPublisher(ch, cfg.Exchange, log)
	out.conn = conn
	return out, nil
}

func NewAMQPOutputWithPublisher(ch Publisher, exchange string, log *slog.Logger) *AMQPOutput {
	return &AMQPOutput{ch: ch, exchange: exchange, log: log}
}

func (a *AMQPOutput) WriteTable(ctx context.Context, table dashboard.Table) error {
	body, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode table %s: %w", table.Name, err)
	}

	err = a.ch.PublishWithContext(ctx, a.exchange, table.Name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish table %s: %w", table.Name, err)
	}

	a.log.DebugContext(ctx, "table published", "exchange", a.exchange, "routing_key", table.Name)
	return nil
}

func (a *AMQPOutput) Close() error {
	err := a.ch.Close()
	if a.conn != nil {
		if cerr := a.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
