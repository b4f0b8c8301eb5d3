package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"linkboard/internal/domain"
)

const exchangeKind = "topic"

// RabbitMQ publishes submission events on a topic exchange. Each event is
// routed as <RoutingKey>.<kind>.<action>, so consumers can bind to a single
// entry kind (e.g. "*.job.*") or to everything ("<RoutingKey>.#").
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	logger  *slog.Logger
}

type Config struct {
	URL      string
	Exchange string
	// RoutingKey is the first segment of every event's routing key.
	RoutingKey string
	// QueueName is bound to all events under RoutingKey. Empty skips the
	// queue declaration and leaves binding to consumers.
	QueueName string
}

// Binding returns the pattern matching every event published under cfg.
func (c Config) Binding() string {
	return c.RoutingKey + ".#"
}

// EventKey returns the routing key event is published with.
func (c Config) EventKey(event *domain.SubmissionEvent) string {
	return fmt.Sprintf("%s.%s.%s", c.RoutingKey, event.Kind, event.Action)
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	if cfg.Exchange == "" || cfg.RoutingKey == "" {
		return nil, errors.New("exchange and routing key are required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	r := &RabbitMQ{
		conn:    conn,
		channel: ch,
		cfg:     cfg,
		logger:  logger.With("component", "publisher"),
	}

	if err := r.declareTopology(); err != nil {
		r.Close()
		return nil, err
	}

	r.logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"exchange_kind", exchangeKind,
		"queue", cfg.QueueName,
		"binding", cfg.Binding(),
	)

	return r, nil
}

func (r *RabbitMQ) declareTopology() error {
	if err := r.channel.ExchangeDeclare(r.cfg.Exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", r.cfg.Exchange, err)
	}

	if r.cfg.QueueName == "" {
		return nil
	}

	q, err := r.channel.QueueDeclare(r.cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", r.cfg.QueueName, err)
	}

	if err := r.channel.QueueBind(q.Name, r.cfg.Binding(), r.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", q.Name, err)
	}
	return nil
}

// Publish sends event as a persistent JSON message. The message id is
// <kind>-<id> so consumers can drop redeliveries.
func (r *RabbitMQ) Publish(ctx context.Context, event *domain.SubmissionEvent) error {
	msg, err := newMessage(event)
	if err != nil {
		return err
	}

	key := r.cfg.EventKey(event)
	if err := r.channel.PublishWithContext(ctx, r.cfg.Exchange, key, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	r.logger.Debug("published submission event",
		"routing_key", key,
		"id", event.ID,
		"url", event.URL,
	)
	return nil
}

func newMessage(event *domain.SubmissionEvent) (amqp.Publishing, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal %s event: %w", event.Kind, err)
	}

	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    string(event.Kind) + "-" + strconv.FormatInt(event.ID, 10),
		Type:         string(event.Kind) + "." + event.Action,
		AppId:        "linkboard",
		Timestamp:    event.Timestamp,
		Body:         body,
	}, nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
