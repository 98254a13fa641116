package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"aegis/internal/config"
	"aegis/internal/domain/notification"

	"github.com/streadway/amqp"
)

var ErrPublisherClosed = errors.New("amqp publisher closed")

// Publisher mirrors stored notifications onto a topic exchange so other
// services can react to them. Routing keys are "user.<id>".
type Publisher struct {
	conn     *amqp.Connection
	exchange string
	logger   *log.Logger
}

// NewPublisher dials the broker and declares the exchange. It returns nil,
// nil when no URL is configured.
func NewPublisher(cfg config.AMQPConfig, logger *log.Logger) (*Publisher, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp declare exchange %s: %w", cfg.Exchange, err)
	}

	if logger != nil {
		logger.Printf("[AMQP] publishing notifications to exchange=%s", cfg.Exchange)
	}
	return &Publisher{conn: conn, exchange: cfg.Exchange, logger: logger}, nil
}

func (p *Publisher) Name() string { return "amqp" }

func (p *Publisher) Deliver(ctx context.Context, n notification.Notification) error {
	if p == nil || p.conn == nil || p.conn.IsClosed() {
		return ErrPublisherClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(n)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	return ch.Publish(
		p.exchange,
		RoutingKey(n),
		false, // mandatory
		false, // immediate
		msg,
	)
}

func (p *Publisher) Close() error {
	if p == nil || p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}

func RoutingKey(n notification.Notification) string {
	return "user." + n.UserID.String()
}

type notificationMessage struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

func buildMessage(n notification.Notification) (amqp.Publishing, error) {
	body, err := json.Marshal(notificationMessage{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Message:   n.Message,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.ID.String(),
		Timestamp:    n.CreatedAt.UTC(),
		Body:         body,
	}, nil
}
